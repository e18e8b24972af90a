package ldb

import (
	"reflect"
	"strings"
	"testing"

	"github.com/cashupol/pold/database"
)

func TestTransactionCommit(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestTransactionCommit")
	defer teardownFunc()

	// Begin a new transaction
	tx, err := ldb.Begin()
	if err != nil {
		t.Fatalf("TestTransactionCommit: Begin "+
			"unexpectedly failed: %s", err)
	}
	defer func() {
		err := tx.RollbackUnlessClosed()
		if err != nil {
			t.Fatalf("TestTransactionCommit: RollbackUnlessClosed "+
				"unexpectedly failed: %s", err)
		}
	}()

	// Put something into the transaction
	key := database.MakeBucket().Key([]byte("key"))
	putData := []byte("Hello world!")
	err = tx.Put(key, putData)
	if err != nil {
		t.Fatalf("TestTransactionCommit: Put "+
			"unexpectedly failed: %s", err)
	}

	// Get from the key previously put to. Since transactions provide
	// a frozen view of the database from the moment they begin, the
	// put data is expected to not exist.
	_, err = tx.Get(key)
	if err == nil {
		t.Fatalf("TestTransactionCommit: Get " +
			"unexpectedly succeeded before Commit")
	}
	if !database.IsNotFoundError(err) {
		t.Fatalf("TestTransactionCommit: Get "+
			"returned wrong error: %s", err)
	}

	// Commit the transaction
	err = tx.Commit()
	if err != nil {
		t.Fatalf("TestTransactionCommit: Commit "+
			"unexpectedly failed: %s", err)
	}

	// Make sure the data is now available through the database
	getData, err := ldb.Get(key)
	if err != nil {
		t.Fatalf("TestTransactionCommit: Get "+
			"unexpectedly failed after Commit: %s", err)
	}
	if !reflect.DeepEqual(getData, putData) {
		t.Fatalf("TestTransactionCommit: get data and put data "+
			"are not equal. Put: %s, got: %s",
			string(putData), string(getData))
	}
}

func TestTransactionRollback(t *testing.T) {
	ldb, teardownFunc := prepareDatabaseForTest(t, "TestTransactionRollback")
	defer teardownFunc()

	// Begin a new transaction
	tx, err := ldb.Begin()
	if err != nil {
		t.Fatalf("TestTransactionRollback: Begin "+
			"unexpectedly failed: %s", err)
	}

	// Put something into the transaction and roll it back
	key := database.MakeBucket().Key([]byte("key"))
	err = tx.Put(key, []byte("Hello world!"))
	if err != nil {
		t.Fatalf("TestTransactionRollback: Put "+
			"unexpectedly failed: %s", err)
	}
	err = tx.Rollback()
	if err != nil {
		t.Fatalf("TestTransactionRollback: Rollback "+
			"unexpectedly failed: %s", err)
	}

	// Make sure the data does not exist in the database
	exists, err := ldb.Has(key)
	if err != nil {
		t.Fatalf("TestTransactionRollback: Has "+
			"unexpectedly failed: %s", err)
	}
	if exists {
		t.Fatalf("TestTransactionRollback: Has " +
			"unexpectedly returned that the data exists after Rollback")
	}
}

func TestTransactionCloseErrors(t *testing.T) {
	tests := []struct {
		name string

		// function is the LevelDBTransaction function that
		// we're verifying whether it returns an error after
		// the transaction had been closed.
		function          func(dbTx database.Transaction) error
		shouldReturnError bool
	}{
		{
			name: "Put",
			function: func(dbTx database.Transaction) error {
				return dbTx.Put(database.MakeBucket().Key([]byte("key")), []byte("value"))
			},
			shouldReturnError: true,
		},
		{
			name: "Get",
			function: func(dbTx database.Transaction) error {
				_, err := dbTx.Get(database.MakeBucket().Key([]byte("key")))
				return err
			},
			shouldReturnError: true,
		},
		{
			name: "Has",
			function: func(dbTx database.Transaction) error {
				_, err := dbTx.Has(database.MakeBucket().Key([]byte("key")))
				return err
			},
			shouldReturnError: true,
		},
		{
			name: "Delete",
			function: func(dbTx database.Transaction) error {
				return dbTx.Delete(database.MakeBucket().Key([]byte("key")))
			},
			shouldReturnError: true,
		},
		{
			name: "Cursor",
			function: func(dbTx database.Transaction) error {
				_, err := dbTx.Cursor(database.MakeBucket([]byte("bucket")))
				return err
			},
			shouldReturnError: true,
		},
		{
			name:              "Rollback",
			function:          database.Transaction.Rollback,
			shouldReturnError: true,
		},
		{
			name:              "Commit",
			function:          database.Transaction.Commit,
			shouldReturnError: true,
		},
		{
			name:              "RollbackUnlessClosed",
			function:          database.Transaction.RollbackUnlessClosed,
			shouldReturnError: false,
		},
	}

	for _, test := range tests {
		func() {
			ldb, teardownFunc := prepareDatabaseForTest(t, "TestTransactionCloseErrors")
			defer teardownFunc()

			// Begin a new transaction to test Commit
			commitTx, err := ldb.Begin()
			if err != nil {
				t.Fatalf("TestTransactionCloseErrors: Begin "+
					"unexpectedly failed: %s", err)
			}
			defer func() {
				err := commitTx.RollbackUnlessClosed()
				if err != nil {
					t.Fatalf("TestTransactionCloseErrors: RollbackUnlessClosed "+
						"unexpectedly failed: %s", err)
				}
			}()

			// Commit the Commit test transaction
			err = commitTx.Commit()
			if err != nil {
				t.Fatalf("TestTransactionCloseErrors: Commit "+
					"unexpectedly failed: %s", err)
			}

			// Begin a new transaction to test Rollback
			rollbackTx, err := ldb.Begin()
			if err != nil {
				t.Fatalf("TestTransactionCloseErrors: Begin "+
					"unexpectedly failed: %s", err)
			}
			defer func() {
				err := rollbackTx.RollbackUnlessClosed()
				if err != nil {
					t.Fatalf("TestTransactionCloseErrors: RollbackUnlessClosed "+
						"unexpectedly failed: %s", err)
				}
			}()

			// Rollback the Rollback test transaction
			err = rollbackTx.Rollback()
			if err != nil {
				t.Fatalf("TestTransactionCloseErrors: Rollback "+
					"unexpectedly failed: %s", err)
			}

			expectedErrContainsString := "closed transaction"

			// Make sure that the test function returns a "closed transaction"
			// error for both the commit and the rollback transactions
			for _, closedTx := range []database.Transaction{commitTx, rollbackTx} {
				err = test.function(closedTx)
				if test.shouldReturnError {
					if err == nil {
						t.Fatalf("TestTransactionCloseErrors: %s "+
							"unexpectedly succeeded", test.name)
					}
					if !strings.Contains(err.Error(), expectedErrContainsString) {
						t.Fatalf("TestTransactionCloseErrors: %s "+
							"returned wrong error. Want: %s, got: %s",
							test.name, expectedErrContainsString, err)
					}
				} else {
					if err != nil {
						t.Fatalf("TestTransactionCloseErrors: %s "+
							"unexpectedly failed: %s", test.name, err)
					}
				}
			}
		}()
	}
}
