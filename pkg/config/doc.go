// Package config loads the wavesyncd configuration from environment variables.
//
// A `.env` file in the working directory is loaded first when present
// (github.com/joho/godotenv); real environment variables win over it. The
// environment is then parsed into tagged structs with
// github.com/caarlos0/env/v11.
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Load parses the full Config and validates it. LoadInto parses any tagged
// struct the same way, which is handy for tools that need a single section:
//
//	var r redisstore.Config
//	if err := config.LoadInto(&r); err != nil {
//		return err
//	}
package config
