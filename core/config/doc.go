// Package config provides configuration management for the reconciler.
//
// Values come from environment variables, optionally seeded from a .env file,
// and are bound with Viper. Defaults live in the `default` struct tags of each
// section and are registered by reflection, so every key can be overridden
// with SECTION_KEY (for example QUEUE_BACKEND=db).
//
// # Configuration Structure
//
//   - Server: HTTP port and API key
//   - Storage: S3/MinIO credentials and bucket of the object queue
//   - Log: level and format
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Queue: backend (fs, db, object), base path and key prefix
//   - Redis: address and lease duration of the pass lock
//   - Reconcile: account id, snapshot cache TTL and resolver page size
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Queue.Backend)
package config
