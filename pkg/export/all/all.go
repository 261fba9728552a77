// Package all registers every export backend.
//
//	import _ "github.com/codeWuws/th-governance-web-sub002/pkg/export/all"
package all

import (
	_ "github.com/codeWuws/th-governance-web-sub002/pkg/export/mongo"
	_ "github.com/codeWuws/th-governance-web-sub002/pkg/export/postgres"
	_ "github.com/codeWuws/th-governance-web-sub002/pkg/export/sqlite"
)
