package config

const (
	EnvPrefix = "LUXEMART"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
