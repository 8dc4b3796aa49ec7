package geo

import (
	"math"

	"routewise/internal/model"
)

// DefaultSpeedKph is the planning speed used when a caller configures none.
const DefaultSpeedKph = 50.0

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(a, b model.GeoPoint) float64 {
	const R = 6371.0
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lng - a.Lng) * math.Pi / 180
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(a.Lat*math.Pi/180)*math.Cos(b.Lat*math.Pi/180)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return R * c
}

// StopDistanceKm is HaversineKm over two stops. Both stops must carry
// coordinates; the constraint filter guarantees that before any search runs.
func StopDistanceKm(a, b model.Stop) float64 {
	return HaversineKm(*a.Location, *b.Location)
}

// RouteDistanceKm sums leg distances over an ordered stop sequence.
func RouteDistanceKm(stops []model.Stop) float64 {
	total := 0.0
	for i := 0; i+1 < len(stops); i++ {
		total += StopDistanceKm(stops[i], stops[i+1])
	}
	return total
}

// RouteHours returns driving plus service time for a sequence at speedKph.
func RouteHours(stops []model.Stop, speedKph float64) float64 {
	if speedKph <= 0 {
		speedKph = DefaultSpeedKph
	}
	hours := RouteDistanceKm(stops) / speedKph
	for _, s := range stops {
		hours += float64(s.ServiceSec) / 3600
	}
	return hours
}

// BoundingDiameterKm approximates the geographic spread of a stop set as the
// diagonal of its bounding box.
func BoundingDiameterKm(stops []model.Stop) float64 {
	var minLat, maxLat, minLng, maxLng float64
	first := true
	for _, s := range stops {
		if s.Location == nil {
			continue
		}
		if first {
			minLat, maxLat = s.Location.Lat, s.Location.Lat
			minLng, maxLng = s.Location.Lng, s.Location.Lng
			first = false
			continue
		}
		minLat = math.Min(minLat, s.Location.Lat)
		maxLat = math.Max(maxLat, s.Location.Lat)
		minLng = math.Min(minLng, s.Location.Lng)
		maxLng = math.Max(maxLng, s.Location.Lng)
	}
	if first {
		return 0
	}
	return HaversineKm(model.GeoPoint{Lat: minLat, Lng: minLng}, model.GeoPoint{Lat: maxLat, Lng: maxLng})
}
