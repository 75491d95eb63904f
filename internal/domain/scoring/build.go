package scoring

import "strconv"

// generatedBuild marks binaries whose scoring code came out of an automated
// code generator. Set it at link time:
//
//	go build -ldflags "-X github.com/okian/receipts/internal/domain/scoring.generatedBuild=true"
//
// Enabling it adds the generated_total rule to every engine built without an
// explicit WithGeneratedCodeBonus option, which changes the score of any
// receipt whose total exceeds 10.00.
var generatedBuild = "false"

// GeneratedBuild reports the link-time flag. Unparseable values count as false.
func GeneratedBuild() bool {
	v, err := strconv.ParseBool(generatedBuild)
	return err == nil && v
}
