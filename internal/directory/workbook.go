package directory

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	groupSheet = "Groups"
	userSheet  = "Users"
)

// ReadWorkbook loads the group and user record sets from the bootstrap
// spreadsheet. Sheet and column names follow the documented workbook
// layout; a missing sheet yields an empty record set, not an error.
func ReadWorkbook(path string) ([]GroupRecord, []UserRecord, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	groups := make([]GroupRecord, 0)
	for _, row := range sheetRecords(f, groupSheet) {
		groups = append(groups, GroupRecord{
			OUName:    row["ouname"],
			GroupName: row["groupname"],
			Type:      row["type"],
		})
	}

	users := make([]UserRecord, 0)
	for _, row := range sheetRecords(f, userSheet) {
		users = append(users, UserRecord{
			OUName:   row["ouname"],
			UserName: row["username"],
			MemberOf: row["memberof"],
		})
	}

	return groups, users, nil
}

// sheetRecords returns one map per data row, keyed by lowercased header.
func sheetRecords(f *excelize.File, sheet string) []map[string]string {
	rows, err := f.GetRows(sheet)
	if err != nil || len(rows) < 2 {
		zap.S().Named("directory").Warnf("sheet %s missing or empty, skipping", sheet)
		return nil
	}

	colMap := make(map[int]string)
	for i, header := range rows[0] {
		colMap[i] = strings.ToLower(strings.TrimSpace(header))
	}

	records := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record := make(map[string]string)
		for i, cell := range row {
			if key, ok := colMap[i]; ok {
				record[key] = strings.TrimSpace(cell)
			}
		}
		records = append(records, record)
	}
	return records
}
