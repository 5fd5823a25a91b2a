package model

// Property bags a CRM record may carry its fields in, in lookup order.
// An empty bag name means the top level of the record.
const (
	BagProperties = "properties"
	BagFields     = "fields"
	BagTop        = ""
)

// PropertyBags is the default bag lookup order.
var PropertyBags = []string{BagProperties, BagFields, BagTop}

// RawRecord is one record as decoded from the CRM JSON response.
// Values are whatever encoding/json produced (map[string]any, []any,
// string, json.Number, float64, bool, nil).
type RawRecord map[string]any

// Bag returns the named nested property bag, the record itself for BagTop,
// or nil when the bag is absent or not an object.
func (r RawRecord) Bag(name string) map[string]any {
	if name == BagTop {
		return r
	}
	bag, _ := r[name].(map[string]any)
	return bag
}

// Lookup returns the value stored under key in the named bag.
func (r RawRecord) Lookup(bag, key string) (any, bool) {
	m := r.Bag(bag)
	if m == nil {
		return nil, false
	}
	v, ok := m[key]
	return v, ok
}
