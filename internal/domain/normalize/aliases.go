package normalize

import "github.com/okian/jobfeed/internal/domain/model"

// alias is one place a field may live in a raw record.
type alias struct {
	bag string
	key string
}

// inBags expands keys over the default bag order: every key is tried in
// properties, then every key in fields, then every key at the top level.
func inBags(keys ...string) []alias {
	out := make([]alias, 0, len(keys)*len(model.PropertyBags))
	for _, bag := range model.PropertyBags {
		for _, key := range keys {
			out = append(out, alias{bag: bag, key: key})
		}
	}
	return out
}

// topLevel lists keys that are only looked up on the record itself.
func topLevel(keys ...string) []alias {
	out := make([]alias, len(keys))
	for i, key := range keys {
		out[i] = alias{bag: model.BagTop, key: key}
	}
	return out
}

// Alias table. Adding a spelling is a data change here, nothing else.
var (
	idAliases          = topLevel("id", "_id", "recordId")
	jobNumberAliases   = inBags("job_number", "jobNumber", "job_no")
	contactAliases     = inBags("contact", "contact_name", "customer_name")
	serviceAliases     = inBags("service", "job_service", "service_type")
	titleAliases       = inBags("job_title", "title", "name")
	descriptionAliases = inBags("job_description", "description")
	cityAliases        = inBags("city", "job_city", "location")
	dateAliases        = inBags("job_date", "date")
	amountAliases      = inBags("job_amount", "amount")
	photoAliases       = inBags("photos", "job_photos", "images", "photo_urls")
	heroImageAliases   = inBags("hero_image_url", "hero_image")
	createdAtAliases   = append(topLevel("createdAt", "dateAdded", "created_at"), alias{model.BagProperties, "created_at"})
	updatedAtAliases   = append(topLevel("updatedAt", "dateUpdated", "updated_at"), alias{model.BagProperties, "updated_at"})
)

// first returns the first candidate value that is not empty.
func first(raw model.RawRecord, aliases []alias) (any, bool) {
	for _, a := range aliases {
		if v, ok := raw.Lookup(a.bag, a.key); ok && !isEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

// stringField resolves aliases to the first non-empty display string.
func stringField(raw model.RawRecord, aliases []alias) string {
	for _, a := range aliases {
		v, ok := raw.Lookup(a.bag, a.key)
		if !ok {
			continue
		}
		if s := asString(v); s != "" {
			return s
		}
	}
	return ""
}

// timestampField is stringField for timestamps: string values come back
// exactly as stored, surrounding whitespace included.
func timestampField(raw model.RawRecord, aliases []alias) string {
	for _, a := range aliases {
		v, ok := raw.Lookup(a.bag, a.key)
		if !ok || isEmpty(v) {
			continue
		}
		if s, ok := v.(string); ok {
			return s
		}
		if s := asString(v); s != "" {
			return s
		}
	}
	return ""
}
