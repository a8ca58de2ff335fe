package utils

import (
	"strings"

	"busbooking/internal/domain/models"
)

// firmaKeywords mark a group label as fed by the Firma kitchen.
var firmaKeywords = []string{
	"guru", "pembina", "wustha", "ulya", "kelas", "firma", "listrik", "ukp",
	"ub", "gp", "gb", "cbr", "database", "wustho", "ketua", "putri",
}

// KitchenCategory returns "Firma" when the group label contains any Firma
// keyword (case-insensitive), otherwise "Mbahman".
func KitchenCategory(groupPondok string) string {
	g := strings.ToLower(groupPondok)
	for _, k := range firmaKeywords {
		if strings.Contains(g, k) {
			return models.KitchenFirma
		}
	}
	return models.KitchenMbahman
}

// PondokMealMultiplier returns how many meals each pondok passenger gets on
// the way to destination. Unknown destinations get none.
func PondokMealMultiplier(destination string) int {
	switch strings.ToLower(strings.TrimSpace(destination)) {
	case "bandung", "jakarta", "cilacap", "banyuwangi":
		return 1
	case "lampung", "palembang":
		return 2
	default:
		return 0
	}
}
