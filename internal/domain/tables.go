package domain

var Tables = []interface{}{
	// Catalog
	&Category{},
	&Product{},
	// Accounts
	&User{},
	// Orders
	&Order{},
	&OrderItem{},
}
