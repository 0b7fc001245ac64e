// Package transport pushes tuner output frames to websocket clients and
// accepts live property changes from them.
package transport

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Message types exchanged over the socket.
const (
	TypeFrame = "frame"
	TypeSet   = "set"
	TypeGet   = "get"
	TypeValue = "value"
	TypeError = "error"
)

// ErrClosed is returned by Broadcast after Close.
var ErrClosed = errors.New("transport: hub closed")

// Controller is the property surface a client may drive.
type Controller interface {
	Property(name string) (float64, error)
	SetProperty(name string, v float64) error
}

// Frame is one monitor update.
type Frame struct {
	Type     string             `json:"type"`
	Seq      uint64             `json:"seq"`
	Consumed uint64             `json:"consumed"`
	Produced uint64             `json:"produced"`
	Params   map[string]float64 `json:"params,omitempty"`
	PeakFreq float64            `json:"peak_freq"`
	PeakDB   float64            `json:"peak_db"`
	IQ       [][2]float64       `json:"iq,omitempty"`
}

// Request is a client message.
type Request struct {
	Type     string  `json:"type"`
	ID       int     `json:"id,omitempty"`
	Property string  `json:"property"`
	Value    float64 `json:"value"`
}

// Reply answers a Request.
type Reply struct {
	Type     string  `json:"type"`
	ID       int     `json:"id,omitempty"`
	Property string  `json:"property,omitempty"`
	Value    float64 `json:"value"`
	Error    string  `json:"error,omitempty"`
}

// IQPoints converts samples to the JSON point form, keeping at most max
// evenly spaced points when max > 0.
func IQPoints(samples []complex128, max int) [][2]float64 {
	step := 1
	if max > 0 && len(samples) > max {
		step = (len(samples) + max - 1) / max
	}

	out := make([][2]float64, 0, (len(samples)+step-1)/step)
	for i := 0; i < len(samples); i += step {
		out = append(out, [2]float64{real(samples[i]), imag(samples[i])})
	}
	return out
}

func handle(ctl Controller, data []byte) Reply {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return Reply{Type: TypeError, Error: fmt.Sprintf("malformed request: %v", err)}
	}

	reply := Reply{Type: TypeValue, ID: req.ID, Property: req.Property}

	switch req.Type {
	case TypeSet:
		if err := ctl.SetProperty(req.Property, req.Value); err != nil {
			return Reply{Type: TypeError, ID: req.ID, Property: req.Property, Error: err.Error()}
		}
		fallthrough
	case TypeGet:
		v, err := ctl.Property(req.Property)
		if err != nil {
			return Reply{Type: TypeError, ID: req.ID, Property: req.Property, Error: err.Error()}
		}
		reply.Value = v
		return reply
	default:
		return Reply{Type: TypeError, ID: req.ID, Error: fmt.Sprintf("unknown request type %q", req.Type)}
	}
}
