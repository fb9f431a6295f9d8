// Package accessmodel mirrors the read-only reporting dimensions of the access model.
// The dashboard only reads them; the models exist for seeding development warehouses.
package accessmodel

type DimReportUser struct {
	UserKey              int64  `gorm:"column:userkey;primaryKey;autoIncrement:false"`
	EmployeeNumber       string `gorm:"column:employeenumber"`
	InternalEmailAddress string `gorm:"column:internalemailaddress"`
	FullName             string `gorm:"column:fullname"`
}

func (DimReportUser) TableName() string {
	return "dimreportuser"
}

type TeamGrouping struct {
	TeamGroupingKey int64  `gorm:"column:teamgroupingkey;primaryKey;autoIncrement:false"`
	TeamName        string `gorm:"column:teamname"`
	Office          string `gorm:"column:office"`
	City            string `gorm:"column:city"`
}

func (TeamGrouping) TableName() string {
	return "teamgrouping"
}

type BridgeUserTeam struct {
	UserKey         int64 `gorm:"column:userkey;primaryKey;autoIncrement:false"`
	TeamGroupingKey int64 `gorm:"column:teamgroupingkey;primaryKey;autoIncrement:false"`
}

func (BridgeUserTeam) TableName() string {
	return "bridgeuserteam"
}

// BridgeMandateTeamAccess is shown as-is; its column set belongs to the warehouse.
// Column names are lower case because the report queries use unquoted identifiers.
type BridgeMandateTeamAccess struct {
	MandateKey      int64  `gorm:"column:mandatekey;primaryKey;autoIncrement:false"`
	MandateName     string `gorm:"column:mandatename"`
	TeamGroupingKey int64  `gorm:"column:teamgroupingkey;primaryKey;autoIncrement:false"`
	AccessLevel     string `gorm:"column:accesslevel"`
}

func (BridgeMandateTeamAccess) TableName() string {
	return "bridgemandateteamaccess"
}
