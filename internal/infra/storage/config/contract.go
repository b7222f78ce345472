package config

import "github.com/m04kA/SMC-PickupService/pkg/dbmetrics"

// DBExecutor интерфейс для выполнения SQL запросов (*sql.DB, *sql.Tx или обёртки)
type DBExecutor = dbmetrics.DBExecutor
