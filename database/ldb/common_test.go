package ldb

import (
	"io/ioutil"
	"testing"
)

func prepareDatabaseForTest(t *testing.T, testName string) (ldb *LevelDB, teardownFunc func()) {
	// Create a temp db to run tests against
	path, err := ioutil.TempDir("", testName)
	if err != nil {
		t.Fatalf("%s: TempDir unexpectedly "+
			"failed: %s", testName, err)
	}
	ldb, err = NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("%s: NewLevelDB unexpectedly "+
			"failed: %s", testName, err)
	}
	teardownFunc = func() {
		err = ldb.Close()
		if err != nil {
			t.Fatalf("%s: Close unexpectedly "+
				"failed: %s", testName, err)
		}
	}
	return ldb, teardownFunc
}
