package directory

// GroupRecord and UserRecord mirror the rows of the bootstrap workbook.
// The schema is assumed, not validated: unknown columns are ignored and
// missing cells come through empty.

type GroupRecord struct {
	OUName    string
	GroupName string
	Type      string
}

type UserRecord struct {
	OUName   string
	UserName string
	MemberOf string
}
