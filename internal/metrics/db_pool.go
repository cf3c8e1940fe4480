package metrics

import "database/sql"

// UpdateDBPoolStats publishes connection pool state from sql.DBStats.
func UpdateDBPoolStats(stats sql.DBStats) {
	DBConnectionPoolSize.WithLabelValues("in_use").Set(float64(stats.InUse))
	DBConnectionPoolSize.WithLabelValues("idle").Set(float64(stats.Idle))
	DBConnectionPoolSize.WithLabelValues("max_open").Set(float64(stats.MaxOpenConnections))
}
