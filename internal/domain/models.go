package domain

// Models lists every persisted type in dependency order.
func Models() []any {
	return []any{
		&Equipment{},
		&Personnel{},
		&ChecklistItem{},
		&InspectionReport{},
		&DailyInspection{},
		&ReportNote{},
		&ReportAttachment{},
		&Account{},
		&AuthToken{},
	}
}
