// Package geo подбирает ближайшие к месту происшествия больницы.
//
// Расстояние считается как квадрат евклидова расстояния в сырых координатах
// широта/долгота, без геодезической поправки. Так ранжировались все исторические
// происшествия, поэтому метрика сохраняется как есть.
package geo

import (
	"sort"

	"github.com/shenikar/accident_dispatch_system/internal/models"
)

// SquaredDistance возвращает квадрат расстояния между точкой и больницей
func SquaredDistance(lat, lon float64, r *models.Responder) float64 {
	dLat := lat - r.Latitude
	dLon := lon - r.Longitude
	return dLat*dLat + dLon*dLon
}

// SelectNearest возвращает не более k ближайших больниц в порядке возрастания расстояния.
// При равных расстояниях сохраняется порядок справочника. Входной срез не изменяется.
func SelectNearest(responders []*models.Responder, lat, lon float64, k int) []*models.Responder {
	if k <= 0 || len(responders) == 0 {
		return []*models.Responder{}
	}

	ranked := make([]*models.Responder, len(responders))
	copy(ranked, responders)

	sort.SliceStable(ranked, func(i, j int) bool {
		return SquaredDistance(lat, lon, ranked[i]) < SquaredDistance(lat, lon, ranked[j])
	})

	if len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked
}
