package util

import "fmt"

type Version struct {
	Major uint
	Minor uint
	Patch uint
}

// HaodaVersion is the version reported by the version command.
var HaodaVersion = Version{0, 1, 0}

func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}
