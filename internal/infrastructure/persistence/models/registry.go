package models

// All returns every persistence model in dependency order, for AutoMigrate
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&CompanyModel{},
		&RetailerProfileModel{},
		&ConnectionModel{},
		&RetailerModel{},
		&CategoryModel{},
		&ProductModel{},
		&OrderModel{},
		&OrderItemModel{},
		&EmployeeModel{},
		&TruckModel{},
		&ShipmentModel{},
		&InvoiceModel{},
		&InvoiceItemModel{},
	}
}
