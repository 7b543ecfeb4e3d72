package kafka

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/mrodal/stockpos/internal/core/domain"
	"github.com/mrodal/stockpos/internal/core/port"
	"github.com/mrodal/stockpos/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.SaleEventProducer = (*SalesProducer)(nil)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A SalesProducer used for produce completed [domain.Sale] events
type SalesProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewSalesProducer(
	opts ...ProducerOpt,
) (SalesProducer, error) {
	const op = "NewSalesProducer"

	if len(opts) != 2 {
		panic(opErr(ErrTooFewOpts, op)) // develop mistake
	}

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return SalesProducer{}, opErr(err, op)
		}
	}

	opPrefix := "SalesProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return SalesProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p SalesProducer) Close() {
	p.producer.close()
}

func (p SalesProducer) ProduceSale(
	ctx context.Context, v domain.Sale,
) error {
	const op = "ProduceSale"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, &r); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p SalesProducer) createRecord(
	v domain.Sale,
) (kgo.Record, error) {
	const op = "createRecord"

	s := p.toSchema(v)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return kgo.Record{}, opErr(err, p.opPrefix, op)
	}
	msgKey := []byte(strconv.FormatInt(s.SaleID, 10))
	r := kgo.Record{Key: msgKey, Value: b}

	return r, nil
}

func (SalesProducer) toSchema(v domain.Sale) schema.SaleV1 {
	return saleToSchemaV1(v)
}
