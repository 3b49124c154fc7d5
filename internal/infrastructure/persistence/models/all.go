package models

// All returns every persistence model for schema auto-migration
func All() []interface{} {
	return []interface{}{
		&TenantModel{},
		&PlanModel{},
		&UserModel{},
		&MemberModel{},
		&ItemModel{},
		&EventModel{},
		&CourseModel{},
		&TransactionModel{},
		&DataMigrationModel{},
		&TicketModel{},
		&BroadcastModel{},
		&AuditEntryModel{},
		&SettingsModel{},
		&GlobalSettingsModel{},
		&OutboxEntryModel{},
	}
}
