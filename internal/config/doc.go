// Package config provides configuration parsing for vbind projects.
//
// The configuration is stored in vbind.json at the project root. Values can
// be overridden from the environment with VBIND_TEMPLATE, VBIND_DATA,
// VBIND_SELECTOR, VBIND_STRICT, VBIND_HOST, VBIND_PORT, VBIND_METRICS,
// VBIND_S3_ENDPOINT and AWS_REGION.
//
// # Configuration File Structure
//
//	{
//	  "template": "index.html",
//	  "data": "s3://fixtures/data.json",
//	  "selector": "#app",
//	  "strict": false,
//	  "computed": {
//	    "total": "price * qty"
//	  },
//	  "methods": {
//	    "inc": {"count": "count + 1"}
//	  },
//	  "server": {"host": "localhost", "port": 3000},
//	  "s3": {"region": "us-east-1"}
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.ApplyEnv(nil); err != nil {
//	    log.Fatal(err)
//	}
package config
