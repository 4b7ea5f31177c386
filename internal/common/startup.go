package common

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	commonconfig "github.com/tabstreamproject/tabstream/internal/common/config"
)

const baseConfigFileName = "config"

func BindCommandlineArguments() {
	err := viper.BindPFlags(pflag.CommandLine)
	if err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

// LoadConfig reads config.yaml from defaultPath, merges any user-specified
// override files on top in the order given, then unmarshals into config.
// Values can additionally be overridden via TABSTREAM_* environment variables.
func LoadConfig(config interface{}, defaultPath string, overrideConfigs []string) {
	v := viper.GetViper()
	v.SetConfigName(baseConfigFileName)
	v.AddConfigPath(defaultPath)
	if err := v.ReadInConfig(); err != nil {
		log.Error(err)
		os.Exit(-1)
	}

	for _, overrideConfig := range overrideConfigs {
		v.SetConfigFile(overrideConfig)
		if err := v.MergeInConfig(); err != nil {
			log.Error(err)
			os.Exit(-1)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("TABSTREAM")
	v.AutomaticEnv()

	if err := v.Unmarshal(config, commonconfig.CustomHooks...); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func ConfigureLogging() {
	log.SetFormatter(&log.TextFormatter{ForceColors: true, FullTimestamp: true})
	log.SetOutput(os.Stdout)
}

// ServeMetrics exposes prometheus metrics on the given port until the
// returned shutdown function is called.
func ServeMetrics(port uint16) (shutdown func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return ServeHttp(port, mux)
}

// ServeHttp starts an http server listening on the given port in a background
// goroutine. The returned function performs a graceful shutdown.
func ServeHttp(port uint16, handler http.Handler) (shutdown func()) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	go func() {
		log.Infof("Starting http server listening on %d", port)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Infof("Stopping http server listening on %d", port)
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warnf("Failed to shut down http server listening on %d", port)
		}
	}
}
