package query

type Example struct {
	Title string `json:"title"`
	Input Input  `json:"input"`
}

var Examples = []Example{
	{
		Title: "Human samples derived from another sample",
		Input: Input{
			Left:         Side{Attribute: "organism", Value: "Homo sapiens"},
			Relationship: "DERIVED_FROM",
		},
	},
	{
		Title: "Samples referenced in ENA",
		Input: Input{
			Left: Side{Reference: "ENA"},
		},
	},
	{
		Title: "Mouse samples related to samples in ArrayExpress",
		Input: Input{
			Left:  Side{Attribute: "organism", Value: "Mus musculus"},
			Right: Side{Reference: "ArrayExpress"},
		},
	},
	{
		Title: "Groups and their members",
		Input: Input{
			Relationship: "HAS_MEMBER",
		},
	},
}
