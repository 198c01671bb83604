package sql

import (
	_ "embed"
)

//go:embed queries/lookup_plan.sql
var LookupPlan string

//go:embed queries/upsert_patient.sql
var UpsertPatient string

//go:embed queries/insert_bill.sql
var InsertBill string

//go:embed queries/bills_by_patient.sql
var BillsByPatient string

//go:embed queries/all_bills.sql
var AllBills string
