package network

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"elevatorsim/dispatch"
	"elevatorsim/elevator"
	"elevatorsim/fsm"
)

const writeTimeout = 2 * time.Second
const requestTimeout = 5 * time.Second
const tickBufferSize = 64

type MessageType string

const (
	TypeSubmitRequest MessageType = "SubmitRequest"
	TypeListElevators MessageType = "ListElevators"
	TypeListFloors    MessageType = "ListFloors"
	TypeSubscribe     MessageType = "Subscribe"

	TypeACK        MessageType = "ACK"
	TypeElevators  MessageType = "Elevators"
	TypeFloors     MessageType = "Floors"
	TypeSubscribed MessageType = "Subscribed"
	TypeTick       MessageType = "Tick"
	TypeError      MessageType = "Error"
)

// envelope is the frame every message travels in. Content is decoded once the
// type is known.
type envelope struct {
	Type    MessageType     `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

type SubmitRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type Ack struct {
	TripID     uuid.UUID `json:"tripId"`
	ElevatorID int       `json:"elevatorId"`
	Cost       int       `json:"cost"`
	Duplicate  bool      `json:"duplicate"`
	Error      string    `json:"error,omitempty"`
}

func ackFromReceipt(r dispatch.Receipt) Ack {
	return Ack{TripID: r.TripID, ElevatorID: r.ElevatorID, Cost: r.Cost}
}

type TickMessage struct {
	Tick      uint64              `json:"tick"`
	Events    []fsm.Event         `json:"events"`
	Elevators []elevator.Elevator `json:"elevators"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}
