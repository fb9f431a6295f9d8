package permission

import "time"

// ManagerWorkerExtension lets a manager see a worker's data.
type ManagerWorkerExtension struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	ManagerName string    `gorm:"column:manager_name;not null"`
	WorkerName  string    `gorm:"column:worker_name;not null"`
	Timestamp   time.Time `gorm:"column:timestamp"`
}

func (ManagerWorkerExtension) TableName() string {
	return "managerworkerextension"
}

// UserTeamExtension grants a worker access to a team.
type UserTeamExtension struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	WorkerName string    `gorm:"column:worker_name;not null"`
	TeamName   string    `gorm:"column:team_name;not null"`
	Timestamp  time.Time `gorm:"column:timestamp"`
}

func (UserTeamExtension) TableName() string {
	return "userteamextension"
}
