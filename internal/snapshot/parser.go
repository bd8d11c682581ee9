package snapshot

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/heap-snapshot/pkg/utils"
)

// DefaultTracerName is the instrumentation scope used for parse spans.
const DefaultTracerName = "github.com/heap-snapshot/internal/snapshot"

// ParserOptions configures a Parser.
type ParserOptions struct {
	// Logger receives debug output and the drift warning. Nil discards.
	Logger utils.Logger
	// Validator is shared across parses so the drift warning fires once.
	// Nil creates one per Parser.
	Validator *Validator
	// TracerName selects the OpenTelemetry tracer from the global provider.
	TracerName string
}

// DefaultParserOptions returns default parser options.
func DefaultParserOptions() *ParserOptions {
	return &ParserOptions{
		Logger:     &utils.NullLogger{},
		TracerName: DefaultTracerName,
	}
}

// Parser decodes heap snapshots into graphs. A Parser may be used from
// several goroutines; each call decodes synchronously.
type Parser struct {
	logger    utils.Logger
	validator *Validator
	tracer    trace.Tracer
}

// NewParser creates a new snapshot parser.
func NewParser(opts *ParserOptions) *Parser {
	if opts == nil {
		opts = DefaultParserOptions()
	}
	logger := opts.Logger
	if logger == nil {
		logger = &utils.NullLogger{}
	}
	validator := opts.Validator
	if validator == nil {
		validator = NewValidator(logger)
	}
	tracerName := opts.TracerName
	if tracerName == "" {
		tracerName = DefaultTracerName
	}
	return &Parser{
		logger:    logger,
		validator: validator,
		tracer:    otel.Tracer(tracerName),
	}
}

// Validator returns the validator holding this parser's drift state.
func (p *Parser) Validator() *Validator {
	return p.validator
}

// Parse decodes one snapshot. On any fatal error no graph is returned.
func (p *Parser) Parse(ctx context.Context, in Input) (*Graph, error) {
	var shape string
	if in != nil {
		shape = in.inputShape()
	}
	ctx, span := p.tracer.Start(ctx, "snapshot.parse",
		trace.WithAttributes(attribute.String("snapshot.input", shape)))
	defer span.End()

	g, err := p.parse(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("snapshot.node_count", g.NodeCount()),
		attribute.Int("snapshot.edge_count", g.EdgeCount()),
		attribute.Bool("snapshot.detachedness", g.HasDetachedness()),
	)
	return g, nil
}

func (p *Parser) parse(ctx context.Context, in Input) (*Graph, error) {
	root, err := p.phase(ctx, "snapshot.normalize", func(ctx context.Context) (any, error) {
		return normalize(ctx, in)
	})
	if err != nil {
		return nil, err
	}

	docAny, err := p.phase(ctx, "snapshot.validate", func(context.Context) (any, error) {
		doc, err := checkStructure(root)
		if err != nil {
			return nil, err
		}
		p.validator.Conforms(doc.meta.Raw)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	doc := docAny.(*flatDocument)

	layout := ResolveLayout(doc.meta)
	p.logger.Debug("snapshot layout: %d node fields, %d edge fields, detachedness=%t",
		layout.NodeFieldCount, layout.EdgeFieldCount, layout.HasDetachedness())

	g := &Graph{
		detachedness:  layout.HasDetachedness(),
		strings:       doc.strings,
		traceFunction: doc.traceFunctionInfos,
	}

	if _, err := p.phase(ctx, "snapshot.decodeNodes", func(context.Context) (any, error) {
		return nil, decodeNodes(g, doc.nodes, doc.strings, layout, doc.nodeCount)
	}); err != nil {
		return nil, err
	}
	if _, err := p.phase(ctx, "snapshot.decodeEdges", func(context.Context) (any, error) {
		return nil, decodeEdges(g, doc.edges, doc.strings, layout)
	}); err != nil {
		return nil, err
	}
	if err := g.buildIndex(); err != nil {
		return nil, err
	}

	p.logger.Debug("snapshot decoded: %d nodes, %d edges, %d strings",
		g.NodeCount(), g.EdgeCount(), len(doc.strings))
	return g, nil
}

// phase runs one pipeline step inside its own span.
func (p *Parser) phase(ctx context.Context, name string, fn func(context.Context) (any, error)) (any, error) {
	ctx, span := p.tracer.Start(ctx, name)
	defer span.End()

	result, err := fn(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		p.logger.Debug("%s failed: %v", name, err)
	}
	return result, err
}

// ParseReader decodes a snapshot from an incremental source.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) (*Graph, error) {
	return p.Parse(ctx, FromReader(r))
}

// ParseBytes decodes a snapshot from its serialized text.
func (p *Parser) ParseBytes(ctx context.Context, data []byte) (*Graph, error) {
	return p.Parse(ctx, FromText(data))
}

// ParseAny resolves v with InputFrom and decodes it.
func (p *Parser) ParseAny(ctx context.Context, v any) (*Graph, error) {
	in, err := InputFrom(v)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, in)
}
