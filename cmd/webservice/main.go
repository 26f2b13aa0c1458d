package main

import (
	"log"

	"github.com/hrstack/onboarding-service/config"
	"github.com/hrstack/onboarding-service/internal/app"

	postgresDriver "github.com/hrstack/onboarding-service/internal/infrastructure/database/postgres"
	kafkaDriver "github.com/hrstack/onboarding-service/internal/infrastructure/message-queue/kafka"
)

func main() {
	config := config.CreateNewConfig()
	db, err := postgresDriver.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName, config.Environment)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	server := app.App{
		DB:     db,
		Config: config,
	}

	if config.KafkaConfig.BrokerAddress != "" {
		server.KafkaProducer = kafkaDriver.CreateKafkaProducer(config)
	}

	server.Start()
}
