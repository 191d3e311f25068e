// Command sakhadb is a small demo/test driver for the storage engine,
// kept separate from the engine package itself.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/google/uuid"

	sakhadb "github.com/Interfere/SakhaDB"
)

func main() {
	dbPath := flag.String("db", "sakhadb.dat", "path to the database file")
	collection := flag.String("collection", "demo", "collection name")
	insert := flag.String("insert", "", "insert a document with this payload, tagged with a fresh object ID")
	dump := flag.Bool("dump", false, "dump the meta tree before exiting")
	verify := flag.Bool("verify", false, "run the integrity checker before exiting")
	flag.Parse()

	db, err := sakhadb.Open(*dbPath)
	if err != nil {
		log.Fatalf("open %s: %v", *dbPath, err)
	}
	defer db.Close()

	col, err := db.Collection(*collection)
	if err != nil {
		log.Fatalf("load collection %q: %v", *collection, err)
	}

	if *insert != "" {
		u := uuid.New()
		var id sakhadb.ObjectID
		copy(id[:], u[:])
		doc := sakhadb.EncodeIDField(id, []byte(*insert))
		gotID, err := col.Insert(doc)
		if err != nil {
			log.Fatalf("insert: %v", err)
		}
		log.Printf("inserted document %x into %q", gotID, *collection)
	}

	if err := db.Commit(); err != nil {
		log.Fatalf("commit: %v", err)
	}

	if *verify {
		if err := db.Verify(); err != nil {
			log.Fatalf("verify: %v", err)
		}
		log.Printf("verify ok")
	}

	if *dump {
		if err := db.Dump(func(line string) { os.Stdout.WriteString(line + "\n") }); err != nil {
			log.Fatalf("dump: %v", err)
		}
	}
}
