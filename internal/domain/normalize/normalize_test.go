package normalize_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/okian/jobfeed/internal/domain/model"
	"github.com/okian/jobfeed/internal/domain/normalize"
	"github.com/okian/jobfeed/internal/domain/visibility"
	. "github.com/smartystreets/goconvey/convey"
)

const placeholder = "https://example.test/placeholder.jpg"

func decode(t *testing.T, s string) model.RawRecord {
	t.Helper()
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var rec model.RawRecord
	if err := dec.Decode(&rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec
}

func TestNormalize(t *testing.T) {
	n := normalize.New(normalize.WithPlaceholder(placeholder))

	Convey("Given a record with nested properties", t, func() {
		rec := decode(t, `{
			"id": "6650a1",
			"createdAt": "2024-05-01T10:00:00.000Z",
			"updatedAt": "2024-05-03T08:30:00.000Z",
			"properties": {
				"job_number": "J-100",
				"contact": "Ann Lee",
				"service": "Roofing",
				"job_title": "  Full roof replacement ",
				"job_description": "Tear-off and new shingles",
				"city": "Austin",
				"job_date": "2024-04-28",
				"job_amount": {"currency": "USD", "value": 12500.5},
				"photos": [{"url": "https://img/1.jpg", "name": "a"}, "https://img/2.jpg", {"url": "https://img/1.jpg"}],
				"hero_image_url": "https://img/hero.jpg"
			}
		}`)

		job := n.Normalize(rec)

		Convey("Then every field is resolved", func() {
			So(job.ID, ShouldEqual, "6650a1")
			So(job.JobNumber, ShouldEqual, "J-100")
			So(job.Contact, ShouldEqual, "Ann Lee")
			So(job.Service, ShouldEqual, "Roofing")
			So(job.Title, ShouldEqual, "Full roof replacement")
			So(job.Description, ShouldEqual, "Tear-off and new shingles")
			So(job.City, ShouldEqual, "Austin")
			So(job.Date, ShouldEqual, "2024-04-28")
			So(job.Amount, ShouldNotBeNil)
			So(*job.Amount, ShouldEqual, 12500.5)
			So(job.Photos, ShouldResemble, []string{"https://img/1.jpg", "https://img/2.jpg"})
			So(job.Cover, ShouldEqual, "https://img/1.jpg")
			So(job.HeroImage, ShouldEqual, "https://img/hero.jpg")
			So(job.ShowOnWebsite, ShouldBeTrue)
			So(job.CreatedAt, ShouldEqual, "2024-05-01T10:00:00.000Z")
			So(job.UpdatedAt, ShouldEqual, "2024-05-03T08:30:00.000Z")
		})
	})

	Convey("Given a record using alternative names in a fields bag", t, func() {
		rec := decode(t, `{
			"id": 987654321987654321,
			"dateAdded": "2024-01-01",
			"fields": {"title": "Gutter cleaning", "job_service": "Gutters", "amount": "$1,200.00",
			           "photos": "https://a.jpg, https://b.jpg\nhttps://a.jpg"}
		}`)

		job := n.Normalize(rec)

		Convey("Then aliases resolve and the id keeps its exact digits", func() {
			So(job.ID, ShouldEqual, "987654321987654321")
			So(job.Title, ShouldEqual, "Gutter cleaning")
			So(job.Service, ShouldEqual, "Gutters")
			So(*job.Amount, ShouldEqual, 1200.0)
			So(job.Photos, ShouldResemble, []string{"https://a.jpg", "https://b.jpg"})
			So(job.CreatedAt, ShouldEqual, "2024-01-01")
		})
	})

	Convey("Given timestamps with surrounding whitespace", t, func() {
		rec := decode(t, `{"id": "w", "createdAt": " 2024-01-01T00:00:00Z ", "dateUpdated": "  ", "updated_at": 1714550400000}`)

		job := n.Normalize(rec)

		Convey("Then string timestamps pass through untouched", func() {
			So(job.CreatedAt, ShouldEqual, " 2024-01-01T00:00:00Z ")
		})

		Convey("Then a blank alias is skipped for the next one", func() {
			So(job.UpdatedAt, ShouldEqual, "1714550400000")
		})
	})

	Convey("Given a record whose preferred alias is empty", t, func() {
		rec := decode(t, `{"id": "x", "properties": {"job_title": "", "title": "Fallback title"}}`)

		Convey("Then the next alias is used", func() {
			So(n.Normalize(rec).Title, ShouldEqual, "Fallback title")
		})
	})

	Convey("Given a record at the top level only", t, func() {
		rec := decode(t, `{"id": "t", "title": "Flat", "city": "Dallas", "service": ["Siding", "Paint"]}`)
		job := n.Normalize(rec)

		Convey("Then top-level keys are read and multi-select takes the first value", func() {
			So(job.Title, ShouldEqual, "Flat")
			So(job.City, ShouldEqual, "Dallas")
			So(job.Service, ShouldEqual, "Siding")
		})
	})

	Convey("Given an empty record", t, func() {
		job := n.Normalize(model.RawRecord{})

		Convey("Then defaults apply and the invariants hold", func() {
			So(job.ID, ShouldEqual, "")
			So(job.Title, ShouldEqual, "")
			So(job.Amount, ShouldBeNil)
			So(job.Photos, ShouldResemble, []string{placeholder})
			So(job.Cover, ShouldEqual, placeholder)
			So(job.ShowOnWebsite, ShouldBeTrue)
		})
	})

	Convey("Given a hidden record", t, func() {
		rec := decode(t, `{"id": "h", "properties": {"show_on_website": ["dont_post_to_website"]}}`)

		Convey("Then ShowOnWebsite is false", func() {
			So(n.Normalize(rec).ShowOnWebsite, ShouldBeFalse)
		})
	})

	Convey("Given a normalizer with custom hidden tags", t, func() {
		custom := normalize.New(normalize.WithVisibility(visibility.New(visibility.WithHiddenTags("draft"))))
		rec := decode(t, `{"id": "d", "properties": {"show_on_website": ["draft"]}}`)

		Convey("Then ShowOnWebsite follows that filter", func() {
			So(custom.Normalize(rec).ShowOnWebsite, ShouldBeFalse)
			So(custom.Normalize(rec).Cover, ShouldEqual, normalize.DefaultPlaceholder)
		})
	})
}

func TestAmount(t *testing.T) {
	Convey("Given amount shapes", t, func() {
		cases := []struct {
			name string
			raw  string
			want *float64
		}{
			{"mapping with value", `{"job_amount": {"currency": "USD", "value": 99}}`, ptr(99)},
			{"mapping with null value", `{"job_amount": {"currency": "USD", "value": null}}`, nil},
			{"mapping without value", `{"job_amount": {"currency": "USD"}}`, nil},
			{"mapping with string value", `{"job_amount": {"value": "42.5"}}`, ptr(42.5)},
			{"plain number", `{"job_amount": 10}`, ptr(10)},
			{"zero", `{"job_amount": 0}`, ptr(0)},
			{"numeric string", `{"job_amount": "1500"}`, ptr(1500)},
			{"non-numeric string", `{"job_amount": "call us"}`, nil},
			{"boolean", `{"job_amount": true}`, nil},
			{"list", `{"job_amount": [1, 2]}`, nil},
			{"absent", `{}`, nil},
		}

		for _, c := range cases {
			Convey("When the amount is a "+c.name, func() {
				rec := decode(t, `{"id": "a", "properties": `+c.raw+`}`)
				got := normalize.Amount(rec)

				if c.want == nil {
					So(got, ShouldBeNil)
				} else {
					So(got, ShouldNotBeNil)
					So(*got, ShouldEqual, *c.want)
				}
			})
		}
	})
}

func TestNormalizeIsTotal(t *testing.T) {
	Convey("Given hostile shapes in every field", t, func() {
		weird := []any{nil, true, 3.5, "", "  ", []any{}, []any{nil, 1.0, map[string]any{}}, map[string]any{"value": map[string]any{}}}
		n := normalize.New()

		Convey("Normalize never panics and keeps the invariants", func() {
			for _, v := range weird {
				props := map[string]any{}
				for _, key := range []string{"job_title", "job_amount", "photos", "show_on_website", "service", "city"} {
					props[key] = v
				}
				rec := model.RawRecord{"id": v, "createdAt": v, "properties": props, "fields": v}

				So(func() { n.Normalize(rec) }, ShouldNotPanic)
				job := n.Normalize(rec)
				So(len(job.Photos), ShouldBeGreaterThan, 0)
				So(job.Cover, ShouldEqual, job.Photos[0])

				out, err := json.Marshal(job)
				So(err, ShouldBeNil)
				var back map[string]any
				So(json.Unmarshal(out, &back), ShouldBeNil)
				_, isObject := back["amount"].(map[string]any)
				So(isObject, ShouldBeFalse)
			}
		})
	})
}

func TestNormalizeAll(t *testing.T) {
	Convey("NormalizeAll keeps input order", t, func() {
		jobs := normalize.New().NormalizeAll([]model.RawRecord{{"id": "b"}, {"id": "a"}})
		So(len(jobs), ShouldEqual, 2)
		So(jobs[0].ID, ShouldEqual, "b")
		So(jobs[1].ID, ShouldEqual, "a")
	})
}

func ptr(f float64) *float64 { return &f }
