package request

import "parking-booking/internal/usecase/commands"

type SlotLocationRequest struct {
	City      string  `json:"city" binding:"required"`
	Area      string  `json:"area"`
	Address   string  `json:"address"`
	PlaceType string  `json:"placeType"`
	Latitude  float64 `json:"latitude" binding:"min=-90,max=90"`
	Longitude float64 `json:"longitude" binding:"min=-180,max=180"`
}

type CreateSlotRequest struct {
	SlotNumber string `json:"slotNumber" binding:"required"`
	SlotLocationRequest
}

func (r *SlotLocationRequest) ToParams() commands.SlotLocationParams {
	return commands.SlotLocationParams{
		City:      r.City,
		Area:      r.Area,
		Address:   r.Address,
		PlaceType: r.PlaceType,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

func (r *CreateSlotRequest) ToParams() commands.CreateSlotParams {
	return commands.CreateSlotParams{
		SlotNumber:         r.SlotNumber,
		SlotLocationParams: r.SlotLocationRequest.ToParams(),
	}
}

type SlotListQuery struct {
	City      string `form:"city"`
	Available *bool  `form:"available"`
}
