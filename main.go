package main

import (
	"os"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"succession-engine/internal/handler"
	"succession-engine/internal/logger"
	"succession-engine/internal/params"
)

func main() {
	log := logger.New(os.Getenv("MODE"))
	defer log.Sync()

	p := params.Default()
	if file := os.Getenv("LEGAL_PARAMS_FILE"); file != "" {
		loaded, err := params.LoadFile(file)
		if err != nil {
			log.Fatal("legal parameter file rejected", zap.String("file", file), zap.Error(err))
		}
		p = loaded
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	h := handler.New(log, p)
	log.Info("Succession engine starting", zap.String("port", port))
	if err := fasthttp.ListenAndServe(":"+port, h.Handle); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}
