package response

import (
	"time"

	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type NotificationJobResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Topic     string    `json:"topic"`
	Status    string    `json:"status"`
	Attempts  int32     `json:"attempts"`
	RunAt     time.Time `json:"runAt"`
	LastError *string   `json:"lastError,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func FromNotificationJobs(vs []*queries.NotificationJobView) ([]*NotificationJobResponse, error) {
	res := make([]*NotificationJobResponse, 0, len(vs))
	if err := copier.Copy(&res, &vs); err != nil {
		return nil, errs.Wrap(err, "failed to map notification jobs")
	}
	return res, nil
}
