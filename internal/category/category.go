package category

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Defaults seeds a fresh dev API.
var Defaults = []Category{
	{ID: 1, Name: "Electronics"},
	{ID: 2, Name: "Home"},
	{ID: 3, Name: "Garden"},
	{ID: 4, Name: "Clothes"},
	{ID: 5, Name: "Books"},
	{ID: 6, Name: "Toys"},
}
