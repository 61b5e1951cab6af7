// cmd/devsim/main.go
//
// devsim serves an in-memory Modbus TCP slave with holding registers
// that refresh with random values, for exercising modpoll against
// live data:
//
//	devsim &
//	modpoll -t 4 -r 1 -c 10 -p 5020 127.0.0.1
package main

import (
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	mbserver "github.com/hootrhino/mbserver"
	"github.com/hootrhino/mbserver/store"
	flag "github.com/spf13/pflag"
)

func main() {
	listen := flag.StringP("listen", "l", "127.0.0.1:5020", "address to serve Modbus TCP on")
	regs := flag.IntP("registers", "n", 10, "number of holding registers to expose")
	period := flag.DurationP("refresh", "d", 100*time.Millisecond, "value refresh period")
	flag.Parse()

	srv := mbserver.NewServer(store.NewInMemoryStore(), 1)
	srv.SetErrorHandler(func(err error) {
		log.Printf("devsim: %v", err)
	})

	if err := refresh(srv, *regs); err != nil {
		log.Fatalf("devsim: seed registers: %v", err)
	}

	if err := srv.Start(*listen); err != nil {
		log.Fatalf("devsim: start: %v", err)
	}
	log.Printf("devsim: serving %d holding registers on %s", *regs, *listen)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(*period)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := refresh(srv, *regs); err != nil {
				log.Printf("devsim: update registers: %v", err)
			}
		case sig := <-stop:
			log.Printf("devsim: caught %v, shutting down", sig)
			srv.Stop()
			return
		}
	}
}

// refresh fills the holding register table with fresh random values,
// the way a live device's readings drift.
func refresh(srv *mbserver.Server, n int) error {
	values := make([]uint16, n)
	for i := range values {
		values[i] = uint16(rand.IntN(1001))
	}
	return srv.SetHoldingRegisters(values)
}
