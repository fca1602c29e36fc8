package main

import (
	"clinic-booking-api/core/logger"
	"clinic-booking-api/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", "error", err)
	}
}
