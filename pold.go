package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btcutil"
	"github.com/cashupol/pold/cashu"
	"github.com/cashupol/pold/config"
	"github.com/cashupol/pold/dbaccess"
	"github.com/cashupol/pold/ledger"
	"github.com/cashupol/pold/verifier"
	"github.com/cashupol/pold/version"
	"github.com/pkg/errors"
)

func main() {
	err := realMain()
	if err != nil {
		if ledger.IsRuleError(err) {
			fmt.Fprintf(os.Stderr, "%s\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		}
		os.Exit(1)
	}
}

func realMain() error {
	err := config.LoadAndSetActiveConfig()
	if err != nil {
		return err
	}
	cfg := config.ActiveConfig()

	log.Infof("Version %s", version.Version())

	databaseContext, err := dbaccess.New(cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() {
		err := databaseContext.Close()
		if err != nil {
			log.Errorf("Could not close the database: %s", err)
		}
	}()

	poldLedger, err := ledger.New(&ledger.Config{
		DatabaseContext: databaseContext,
		EpochDuration:   cfg.EpochDuration,
		HistorySize:     cfg.MaxHistory,
		Verifier:        verifier.New(),
	})
	if err != nil {
		return err
	}
	err = poldLedger.Initialize()
	if err != nil {
		return err
	}

	if cfg.MintProof != "" {
		proof, err := cashu.ParseProof([]byte(cfg.MintProof))
		if err != nil {
			return err
		}
		recordID, err := poldLedger.RecordMintProof(proof, proof.Amount)
		if err != nil {
			return err
		}
		log.Infof("Recorded mint proof as record %s", recordID)
	}

	if cfg.BurnSecret != "" {
		recordID, err := poldLedger.RecordBurnProof(cfg.BurnSecret, cfg.BurnAmount)
		if err != nil {
			return err
		}
		log.Infof("Recorded burn proof as record %s", recordID)
	}

	if cfg.CheckSecret != "" {
		record, found, err := poldLedger.LookupProofRecord(cfg.CheckSecret)
		if err != nil {
			return err
		}
		if found {
			fmt.Printf("The identifier is recorded: %s of %s in epoch %d at %s\n",
				record.Kind, btcutil.Amount(record.Amount), record.EpochID,
				record.Timestamp)
		} else {
			fmt.Println("The identifier is not recorded in any retained epoch")
		}
	}

	report, err := poldLedger.GenerateReport()
	if err != nil {
		return err
	}
	reportJSON, err := json.MarshalIndent(report, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "could not render the report")
	}
	fmt.Println(string(reportJSON))
	fmt.Printf("Total outstanding balance: %s\n",
		btcutil.Amount(report.TotalOutstandingBalance))

	if cfg.CompactDatabase {
		log.Infof("Compacting the database")
		err = databaseContext.Compact()
		if err != nil {
			return err
		}
	}

	return nil
}
