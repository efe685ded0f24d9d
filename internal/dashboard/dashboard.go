// Package dashboard derives chart and alert views from a snapshot of
// products and equipment. Every function is pure and recomputed per request.
package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/erazemk/armazem/internal/equipment"
	"github.com/erazemk/armazem/internal/model"
)

// Default bucket names for missing categorical values.
const (
	UnknownType = "Unknown"
	Unspecified = "Unspecified"
)

// Stock thresholds.
const (
	CriticalBelow = 10
	HighAbove     = 100
)

// Snapshot is the raw data a dashboard is computed from.
type Snapshot struct {
	Products         []model.Product
	Equipment        []model.Equipment
	Documents        int
	StorageLocations int
}

// InactiveUnit is a stored unit that has not been used for too long.
type InactiveUnit struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Days int    `json:"days"`
}

// Group is a set of units sharing name and type.
type Group struct {
	Key   string            `json:"key"`
	Name  string            `json:"name"`
	Type  string            `json:"type"`
	Units []model.Equipment `json:"units"`
}

// Summary holds the headline counters.
type Summary struct {
	TotalStock       int             `json:"total_stock"`
	ProductTypes     int             `json:"product_types"`
	Equipment        int             `json:"equipment"`
	InUse            int             `json:"in_use"`
	Documents        int             `json:"documents"`
	StorageLocations int             `json:"storage_locations"`
	LowStock         []model.Product `json:"low_stock"`
	Inactive         []InactiveUnit  `json:"inactive"`
}

// Dashboard is every view of a snapshot.
type Dashboard struct {
	Summary               Summary             `json:"summary"`
	StockByType           map[string]int      `json:"stock_by_type"`
	StockByLocation       map[string]int      `json:"stock_by_location"`
	StockByProduct        map[string]int      `json:"stock_by_product"`
	CriticalStock         map[string]int      `json:"critical_stock"`
	HighStock             map[string]int      `json:"high_stock"`
	EquipmentByType       map[string]int      `json:"equipment_by_type"`
	EquipmentNamesByUsage map[string][]string `json:"equipment_names_by_usage"`
	InactiveEquipment     []InactiveUnit      `json:"inactive_equipment"`
	WarehouseTotals       map[string]int      `json:"warehouse_totals"`
	EquipmentGroups       []Group             `json:"equipment_groups"`
}

// Build computes all views of s as of now.
func Build(s Snapshot, now time.Time) Dashboard {
	return Dashboard{
		Summary:               Summarize(s, now),
		StockByType:           StockByType(s.Products),
		StockByLocation:       StockByLocation(s.Products),
		StockByProduct:        StockByProduct(s.Products),
		CriticalStock:         CriticalStock(s.Products),
		HighStock:             HighStock(s.Products),
		EquipmentByType:       EquipmentByType(s.Equipment),
		EquipmentNamesByUsage: EquipmentNamesByUsage(s.Equipment),
		InactiveEquipment:     InactiveEquipment(s.Equipment, now),
		WarehouseTotals:       WarehouseTotals(s.Products, s.Equipment),
		EquipmentGroups:       GroupEquipment(s.Equipment),
	}
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

// StockByType sums product quantities per type.
func StockByType(products []model.Product) map[string]int {
	out := make(map[string]int)
	for _, p := range products {
		out[orDefault(p.Type, UnknownType)] += p.Quantity
	}
	return out
}

// StockByLocation sums product quantities per storage location.
func StockByLocation(products []model.Product) map[string]int {
	out := make(map[string]int)
	for _, p := range products {
		out[orDefault(p.StorageLocation, Unspecified)] += p.Quantity
	}
	return out
}

// StockByProduct maps product names to quantities. Products sharing a name
// are not merged: the last one wins.
func StockByProduct(products []model.Product) map[string]int {
	out := make(map[string]int)
	for _, p := range products {
		out[p.Name] = p.Quantity
	}
	return out
}

// CriticalStock returns products whose quantity is below CriticalBelow.
func CriticalStock(products []model.Product) map[string]int {
	out := make(map[string]int)
	for _, p := range products {
		if p.Quantity < CriticalBelow {
			out[p.Name] = p.Quantity
		}
	}
	return out
}

// HighStock returns products whose quantity is above HighAbove.
func HighStock(products []model.Product) map[string]int {
	out := make(map[string]int)
	for _, p := range products {
		if p.Quantity > HighAbove {
			out[p.Name] = p.Quantity
		}
	}
	return out
}

// EquipmentByType counts units per type.
func EquipmentByType(items []model.Equipment) map[string]int {
	out := make(map[string]int)
	for _, e := range items {
		out[orDefault(&e.Type, UnknownType)]++
	}
	return out
}

// EquipmentNamesByUsage lists unit names under the site they are in use at.
// Blank observations are skipped.
func EquipmentNamesByUsage(items []model.Equipment) map[string][]string {
	out := make(map[string][]string)
	for _, e := range items {
		if e.Observation == nil {
			continue
		}
		site := strings.TrimSpace(*e.Observation)
		if site == "" {
			continue
		}
		out[site] = append(out[site], e.Name)
	}
	return out
}

// InactiveEquipment lists stored units idle for more than
// equipment.InactiveAfterDays, in input order.
func InactiveEquipment(items []model.Equipment, now time.Time) []InactiveUnit {
	out := []InactiveUnit{}
	for _, e := range items {
		if days, ok := equipment.Inactive(e, now); ok {
			out = append(out, InactiveUnit{ID: e.ID, Name: e.Name, Days: days})
		}
	}
	return out
}

// WarehouseTotals adds one per equipment unit under its warehouse location
// and each product's quantity under its storage location, in the same
// buckets. Units in use fall under Unspecified.
func WarehouseTotals(products []model.Product, items []model.Equipment) map[string]int {
	out := make(map[string]int)
	for _, e := range items {
		out[orDefault(e.Local, Unspecified)]++
	}
	for _, p := range products {
		out[orDefault(p.StorageLocation, Unspecified)] += p.Quantity
	}
	return out
}

// GroupEquipment groups units by name and type, sorted by group key.
func GroupEquipment(items []model.Equipment) []Group {
	index := make(map[string]int)
	groups := []Group{}
	for _, e := range items {
		key := e.Name + "|" + e.Type
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key, Name: e.Name, Type: e.Type})
		}
		groups[i].Units = append(groups[i].Units, e)
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].Key < groups[b].Key })
	return groups
}

// Summarize computes the headline counters and the low-stock and inactive
// lists as of now.
func Summarize(s Snapshot, now time.Time) Summary {
	sum := Summary{
		Equipment:        len(s.Equipment),
		Documents:        s.Documents,
		StorageLocations: s.StorageLocations,
		LowStock:         []model.Product{},
		Inactive:         InactiveEquipment(s.Equipment, now),
	}

	types := make(map[string]bool)
	untyped := false
	for _, p := range s.Products {
		sum.TotalStock += p.Quantity
		if p.Type == nil {
			untyped = true
		} else {
			types[*p.Type] = true
		}
		if p.Quantity < CriticalBelow {
			sum.LowStock = append(sum.LowStock, p)
		}
	}
	sum.ProductTypes = len(types)
	if untyped {
		sum.ProductTypes++
	}

	for _, e := range s.Equipment {
		if e.Observation != nil && *e.Observation != "" {
			sum.InUse++
		}
	}

	return sum
}
