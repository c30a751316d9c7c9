package response

import (
	"time"

	"parking-booking/internal/pkg/errs"
	"parking-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type SlotResponse struct {
	ID          uuid.UUID `json:"id"`
	SlotNumber  string    `json:"slotNumber"`
	City        string    `json:"city"`
	Area        string    `json:"area"`
	Address     string    `json:"address"`
	PlaceType   string    `json:"placeType"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	IsAvailable bool      `json:"isAvailable"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func FromSlotView(v *queries.SlotView) (*SlotResponse, error) {
	if v == nil {
		return nil, nil
	}
	res := &SlotResponse{}
	if err := copier.Copy(res, v); err != nil {
		return nil, errs.Wrap(err, "failed to map slot view")
	}
	return res, nil
}

func FromSlotViews(vs []*queries.SlotView) ([]*SlotResponse, error) {
	res := make([]*SlotResponse, len(vs))
	for i, v := range vs {
		r, err := FromSlotView(v)
		if err != nil {
			return nil, err
		}
		res[i] = r
	}
	return res, nil
}
