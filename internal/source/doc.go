// Package source loads templates and data from local files or from S3, and
// writes rendered output back to either.
//
//	l := source.New(source.WithS3Config("us-east-1", ""))
//	tmpl, err := l.Read(ctx, "s3://fixtures/index.html")
package source
