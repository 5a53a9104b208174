// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	txsAccepted    prometheus.Counter
	txsFailed      prometheus.Counter
	txsRejected    prometheus.Counter
	instructions   prometheus.Counter
	invocations    prometheus.Counter
	accountsPurged prometheus.Counter
	slot           prometheus.Gauge
	txProcess      prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		txsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_accepted",
			Help:      "number of txs whose instructions all succeeded",
		}),
		txsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_failed",
			Help:      "number of txs with a failing instruction",
		}),
		txsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "txs_rejected",
			Help:      "number of txs rejected before execution",
		}),
		instructions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "instructions",
			Help:      "number of instructions executed",
		}),
		invocations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "invocations",
			Help:      "number of capability calls made by programs",
		}),
		accountsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "accounts_purged",
			Help:      "number of accounts removed for holding no lamports",
		}),
		slot: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ledger",
			Name:      "slot",
			Help:      "current slot",
		}),
		txProcess: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "tx_process_seconds",
			Help:      "time spent processing a tx",
			Buckets:   prometheus.ExponentialBuckets(0.000_01, 4, 10),
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.txsAccepted),
		r.Register(m.txsFailed),
		r.Register(m.txsRejected),
		r.Register(m.instructions),
		r.Register(m.invocations),
		r.Register(m.accountsPurged),
		r.Register(m.slot),
		r.Register(m.txProcess),
	)
	return m, errs.Err
}
