package golden

import "testing"

func TestFixtures(t *testing.T) {
	RunDir(t, "testdata")
}
