package main

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tabstreamproject/tabstream/internal/common"
	commonconfig "github.com/tabstreamproject/tabstream/internal/common/config"
	"github.com/tabstreamproject/tabstream/internal/httpingester"
	"github.com/tabstreamproject/tabstream/internal/httpingester/configuration"
)

const CustomConfigLocation string = "config"

func init() {
	pflag.StringSlice(CustomConfigLocation, []string{}, "Fully qualified path to application configuration file (for multiple config files repeat this arg or separate paths with commas)")
	pflag.Parse()
}

func main() {
	common.ConfigureLogging()
	common.BindCommandlineArguments()

	var config configuration.HttpIngesterConfiguration
	userSpecifiedConfigs := viper.GetStringSlice(CustomConfigLocation)

	common.LoadConfig(&config, "./config/httpingester", userSpecifiedConfigs)
	if err := config.Validate(); err != nil {
		commonconfig.LogValidationErrors(err)
		log.Fatalf("Invalid configuration")
	}

	httpingester.Run(&config)
}
