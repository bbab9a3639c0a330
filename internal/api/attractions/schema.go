package attractions

import "github.com/FACorreiaa/go-city-trip-planner/internal/api/extractor"

// AttractionSchema is the record shape the extraction model fills in from a
// source document.
var AttractionSchema = extractor.Schema{
	Name:        "attraction",
	Description: "Extract separate attractions a person can enjoy when visiting the city, including pubs, restaurants, parks, and more from the provided page content.",
	Fields: []extractor.Field{
		{
			Name:        "name",
			Type:        "string",
			Description: "Exact name of a place a person can visit, for example Mendelovo muzeum or Cukrárna BezCukru",
		},
		{
			Name:        "description",
			Type:        "string",
			Description: "A long text describing the attraction",
		},
	},
}
