package elevio

type Dirn int

const (
	D_Down Dirn = -1
	D_Stop Dirn = 0
	D_Up   Dirn = 1
)

// ElevOutputDevice is what one car's indicator panel shows.
type ElevOutputDevice struct {
	ElevatorID     int  `json:"elevatorId"`
	FloorIndicator int  `json:"floorIndicator"`
	MotorDirection Dirn `json:"motorDirection"`
	DoorLight      bool `json:"doorLight"`
	// CabLights are the dropoff floors of riders already on board.
	CabLights []int `json:"cabLights"`
}

// HallLight is lit while a rider waits at Floor.
type HallLight struct {
	Floor int  `json:"floor"`
	Up    bool `json:"up"`
	Down  bool `json:"down"`
}
