// Package config loads and validates Auralis Core configuration.
//
// Configuration is read from a YAML file with environment variable
// overrides applied on top. Load order:
//
//  1. Hardcoded defaults
//  2. YAML file values
//  3. Environment variables (AURALIS_* plus the legacy MQTT_BROKER_URL
//     and PORT variables honoured by existing deployments)
//
// The zone set is part of configuration: zones are declared once here and
// fixed for the process lifetime. Presence events for undeclared zones are
// dropped by the event handler.
package config
