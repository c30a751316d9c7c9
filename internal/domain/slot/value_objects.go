package slot

import "strings"

type PlaceType string

const (
	PlaceTypeMall        PlaceType = "mall"
	PlaceTypeOffice      PlaceType = "office"
	PlaceTypeHospital    PlaceType = "hospital"
	PlaceTypeStation     PlaceType = "station"
	PlaceTypeResidential PlaceType = "residential"
	PlaceTypeOther       PlaceType = "other"
)

func (p PlaceType) IsValid() bool {
	switch p {
	case PlaceTypeMall, PlaceTypeOffice, PlaceTypeHospital, PlaceTypeStation, PlaceTypeResidential, PlaceTypeOther:
		return true
	default:
		return false
	}
}

// NewPlaceType falls back to "other" for unknown or empty input.
func NewPlaceType(s string) PlaceType {
	p := PlaceType(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return PlaceTypeOther
	}
	return p
}

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

func (c Coordinates) IsValid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

type Location struct {
	City        string
	Area        string
	Address     string
	PlaceType   PlaceType
	Coordinates Coordinates
}

func (l Location) Validate() error {
	if strings.TrimSpace(l.City) == "" || !l.Coordinates.IsValid() {
		return ErrInvalidLocation
	}
	return nil
}
