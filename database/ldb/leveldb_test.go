package ldb

import (
	"io/ioutil"
	"reflect"
	"testing"

	"github.com/cashupol/pold/database"
)

func TestLevelDBSanity(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestLevelDBSanity")
	defer teardownFunc()

	// Put something into the db
	key := database.MakeBucket().Key([]byte("key"))
	putData := []byte("Hello world!")
	err := ldb.Put(key, putData)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Put "+
			"unexpectedly failed: %s", err)
	}

	// Get from the key previously put to
	getData, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Get "+
			"unexpectedly failed: %s", err)
	}

	// Make sure that the put data and the get data are equal
	if !reflect.DeepEqual(getData, putData) {
		t.Fatalf("TestLevelDBSanity: get data and "+
			"put data are not equal. Put: %s, got: %s",
			string(putData), string(getData))
	}

	// Make sure that Has returns true for the key we put
	exists, err := ldb.Has(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Has "+
			"unexpectedly failed: %s", err)
	}
	if !exists {
		t.Fatalf("TestLevelDBSanity: Has " +
			"unexpectedly returned that the data does not exist")
	}

	// Delete the key and make sure it's gone
	err = ldb.Delete(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Delete "+
			"unexpectedly failed: %s", err)
	}
	exists, err = ldb.Has(key)
	if err != nil {
		t.Fatalf("TestLevelDBSanity: Has "+
			"unexpectedly failed: %s", err)
	}
	if exists {
		t.Fatalf("TestLevelDBSanity: Has " +
			"unexpectedly returned that the data exists after Delete")
	}
}

func TestLevelDBGetNotFound(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestLevelDBGetNotFound")
	defer teardownFunc()

	// Get a non-existent key and make sure we get ErrNotFound
	key := database.MakeBucket().Key([]byte("doesn't exist"))
	_, err := ldb.Get(key)
	if err == nil {
		t.Fatalf("TestLevelDBGetNotFound: Get " +
			"unexpectedly succeeded")
	}
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestLevelDBGetNotFound: Get "+
			"returned wrong error: %s", err)
	}

	// Delete of a non-existent key should not return an error
	err = ldb.Delete(key)
	if err != nil {
		t.Fatalf("TestLevelDBGetNotFound: Delete "+
			"unexpectedly failed: %s", err)
	}
}

func TestLevelDBPersistence(t *testing.T) {
	// Create a temp db to run the test against
	path, err := ioutil.TempDir("", "TestLevelDBPersistence")
	if err != nil {
		t.Fatalf("TestLevelDBPersistence: TempDir unexpectedly "+
			"failed: %s", err)
	}
	ldb, err := NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("TestLevelDBPersistence: NewLevelDB unexpectedly "+
			"failed: %s", err)
	}

	// Put something into the db and close it
	key := database.MakeBucket().Key([]byte("key"))
	putData := []byte("Hello world!")
	err = ldb.Put(key, putData)
	if err != nil {
		t.Fatalf("TestLevelDBPersistence: Put "+
			"unexpectedly failed: %s", err)
	}
	err = ldb.Close()
	if err != nil {
		t.Fatalf("TestLevelDBPersistence: Close "+
			"unexpectedly failed: %s", err)
	}

	// Reopen the db and make sure the data is still there
	ldb, err = NewLevelDB(path, 8)
	if err != nil {
		t.Fatalf("TestLevelDBPersistence: NewLevelDB unexpectedly "+
			"failed on reopen: %s", err)
	}
	defer func() {
		err := ldb.Close()
		if err != nil {
			t.Fatalf("TestLevelDBPersistence: Close "+
				"unexpectedly failed: %s", err)
		}
	}()

	getData, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestLevelDBPersistence: Get "+
			"unexpectedly failed after reopen: %s", err)
	}
	if !reflect.DeepEqual(getData, putData) {
		t.Fatalf("TestLevelDBPersistence: get data and put data "+
			"are not equal after reopen. Put: %s, got: %s",
			string(putData), string(getData))
	}
}
