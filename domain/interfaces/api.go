package interfaces

import (
	"context"

	"ui_workflows/domain/entities"
)

// APIClient sends out-of-band requests to the system under test, used for
// setup and teardown around UI scenarios.
type APIClient interface {
	Send(ctx context.Context, req entities.Request) (entities.Response, error)
}
