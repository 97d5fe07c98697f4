package service

import (
	"context"

	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// Request types of the area protocol. Secondary areas send the
// lower-case form of LocalYbus.
const (
	RequestLocalYbus      = "LocalYbus"
	requestLocalYbusLower = "localYbus"
	RequestIsInitialized  = "is_initialized"
)

type Request struct {
	RequestType string `json:"requestType"`
}

// Response carries exactly one of its fields
type Response struct {
	Ybus          *ybus.Serializable `json:"ybus,omitempty"`
	IsInitialized *bool              `json:"is_initialized,omitempty"`
	Error         string             `json:"error,omitempty"`
}

// Handle answers one protocol request
func (s *Service) Handle(ctx context.Context, r Request) Response {
	switch r.RequestType {
	case RequestLocalYbus, requestLocalYbusLower:
		m, err := s.Ybus(ctx)
		if err != nil {
			return Response{Error: err.Error()}
		}
		y := m.Serializable()
		return Response{Ybus: &y}
	case RequestIsInitialized:
		b := s.IsInitialized()
		return Response{IsInitialized: &b}
	}
	return Response{Error: "unknown requestType " + r.RequestType}
}
