package domain

// GroupName identifies one of the predefined ticker groups.
type GroupName string

const (
	GroupSP500    GroupName = "sp500"
	GroupHangSeng GroupName = "hangseng"
	GroupMag7     GroupName = "mag7"
	GroupIndexes  GroupName = "indexes"
)

// GroupNames lists every valid group in presentation order.
var GroupNames = []GroupName{GroupSP500, GroupHangSeng, GroupMag7, GroupIndexes}

// Valid reports whether the name is one of the four predefined groups.
func (n GroupName) Valid() bool {
	switch n {
	case GroupSP500, GroupHangSeng, GroupMag7, GroupIndexes:
		return true
	}
	return false
}

// Group is a named, ordered collection of ticker symbols. Dir is the
// directory under the data root that holds the group's per-ticker files.
type Group struct {
	Name        GroupName `yaml:"name" json:"name"`
	Dir         string    `yaml:"dir" json:"dir"`
	Description string    `yaml:"description" json:"description"`
	Tickers     []string  `yaml:"tickers" json:"tickers"`
}
