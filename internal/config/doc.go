// Package config loads dqinspect configuration.
//
// Sources are layered, later layers overriding earlier ones:
//
//	1. Default() values
//	2. A YAML file (--config, or dqinspect.yaml / configs/dqinspect.yaml)
//	3. Environment variables prefixed with DQ_
//
// Environment variables follow the section path of the YAML keys:
//
//	DQ_SERVER_PORT=9090
//	DQ_LOGGING_LEVEL=debug
//	DQ_INSPECTION_KEY_COLUMNS=customer_id
//	DQ_INSPECTION_EXPECTED_TYPES=age:numeric,email:text
//	DQ_INGEST_DELIMITER=;
//
// Domain rules are structured and only come from the file. The loaded
// Config is validated as a whole; every invalid field is listed in a single
// CONFIG error.
package config
