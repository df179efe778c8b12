package freight

import (
	"strings"

	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"
)

// CostFunc prices a shipment. The default is LaneCost; callers may swap in a
// carrier rate table.
type CostFunc func(origin, destination string, ct catalog.ContainerType, qty int) decimal.Decimal

var baseRate = map[catalog.ContainerType]decimal.Decimal{
	catalog.Container20GP: decimal.NewFromInt(1200),
	catalog.Container40GP: decimal.NewFromInt(2200),
	catalog.Container40HC: decimal.NewFromInt(2400),
	catalog.Container45HC: decimal.NewFromInt(2800),
}

var carriers = []string{"Maersk", "MSC", "CMA CGM", "COSCO", "Hapag-Lloyd", "ONE", "Evergreen"}

func laneHash(origin, destination string) uint64 {
	lane := strings.ToLower(strings.TrimSpace(origin)) + "->" + strings.ToLower(strings.TrimSpace(destination))
	return xxhash.Sum64String(lane)
}

// LaneFactor is in [0.80, 1.60] and stable for a lane.
func LaneFactor(origin, destination string) decimal.Decimal {
	h := laneHash(origin, destination)
	return decimal.New(int64(80+h%81), -2)
}

func LaneCost(origin, destination string, ct catalog.ContainerType, qty int) decimal.Decimal {
	base, ok := baseRate[ct]
	if !ok || qty <= 0 {
		return decimal.Zero
	}
	return base.Mul(decimal.NewFromInt(int64(qty))).Mul(LaneFactor(origin, destination)).Round(2)
}

// TransitDays is 12..41 days, stable for a lane.
func TransitDays(origin, destination string) int {
	return 12 + int((laneHash(origin, destination)>>8)%30)
}

func Carrier(origin, destination string) string {
	return carriers[(laneHash(origin, destination)>>16)%uint64(len(carriers))]
}
