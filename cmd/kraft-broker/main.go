// Command kraft-broker runs the partial Kafka wire-protocol broker:
// it accepts connections on the configured listen address and answers
// ApiVersions, DescribeTopicPartitions, and Fetch requests out of a
// KRaft cluster-metadata log file. There is no flag or environment
// variable surface; configuration is constructed in code (spec §6).
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/burningass23/kraft-broker/internal/broker"
	"github.com/burningass23/kraft-broker/internal/config"
	"github.com/burningass23/kraft-broker/internal/klog"
	"github.com/burningass23/kraft-broker/internal/metrics"
)

func main() {
	logger, err := klog.NewProduction()
	if err != nil {
		panic(err)
	}

	cfg := config.DefaultConfig()
	m := metrics.New()

	b := broker.New(cfg, logger, m)
	if err := b.Start(); err != nil {
		logger.Error("failed to start broker", klog.Error(err))
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	if err := b.Stop(); err != nil {
		logger.Error("error during shutdown", klog.Error(err))
		os.Exit(1)
	}
}
