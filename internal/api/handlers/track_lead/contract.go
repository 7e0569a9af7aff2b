package track_lead

import (
	"context"

	trackLead "github.com/m04kA/SMC-LeadBookingService/internal/usecase/track_lead"
)

type TrackLeadUseCase interface {
	Execute(ctx context.Context, req *trackLead.Request) (*trackLead.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
