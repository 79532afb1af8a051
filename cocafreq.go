package cocafreq

import (
	"database/sql"
	"slices"

	cocafreqdriver "github.com/nao1215/cocafreq/driver"
)

const (
	// DriverName is the name the database/sql driver is registered under
	DriverName = "cocafreq"
)

// Register registers the cocafreq driver with database/sql
func Register() {
	if slices.Contains(sql.Drivers(), DriverName) {
		return
	}
	sql.Register(DriverName, cocafreqdriver.NewDriver())
}

func init() {
	Register()
}
