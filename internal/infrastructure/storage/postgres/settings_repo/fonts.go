package settings_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"oflo/internal/core/apperror"
	"oflo/internal/core/id"
	"oflo/internal/domain/settings"
	"oflo/internal/infrastructure/storage/postgres"
	"oflo/pkg/logger"
)

var _ settings.FontRepository = (*FontRepo)(nil)

// FontRepo stores uploaded fonts zstd-compressed in the fonts table.
type FontRepo struct {
	txm   *postgres.TxManager
	codec *Codec
}

// NewFontRepo creates a new font repository.
func NewFontRepo(txm *postgres.TxManager) (*FontRepo, error) {
	codec, err := NewCodec()
	if err != nil {
		return nil, err
	}
	return &FontRepo{txm: txm, codec: codec}, nil
}

// Codec compresses font files at rest.
type Codec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

// NewCodec creates a zstd codec safe for concurrent EncodeAll/DecodeAll calls.
func NewCodec() (*Codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderMaxMemory(4*settings.MaxFontSize))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Codec{encoder: encoder, decoder: decoder}, nil
}

func (c *Codec) Compress(b []byte) []byte {
	return c.encoder.EncodeAll(b, make([]byte, 0, len(b)/2))
}

func (c *Codec) Decompress(b []byte) ([]byte, error) {
	out, err := c.decoder.DecodeAll(b, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress font: %w", err)
	}
	return out, nil
}

type fontRow struct {
	ID        id.ID     `db:"id"`
	Name      string    `db:"name"`
	Data      []byte    `db:"data"`
	Size      int       `db:"size"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *FontRepo) toFont(row fontRow, withData bool) (*settings.Font, error) {
	f := &settings.Font{Name: row.Name, Size: row.Size}
	f.ID = row.ID
	f.CreatedAt = row.CreatedAt
	f.UpdatedAt = row.UpdatedAt
	if withData && len(row.Data) > 0 {
		data, err := r.codec.Decompress(row.Data)
		if err != nil {
			return nil, err
		}
		f.Data = data
	}
	return f, nil
}

func (r *FontRepo) CreateFont(ctx context.Context, f *settings.Font) error {
	f.Stamp()
	f.Size = len(f.Data)

	sql, args, err := builder().
		Insert("fonts").
		Columns("name", "data", "size", "created_at", "updated_at").
		Values(f.Name, r.codec.Compress(f.Data), f.Size, f.CreatedAt, f.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&f.ID); err != nil {
		if _, ok := postgres.IsUniqueViolation(err); ok {
			return apperror.NewDuplicate("font", "name", f.Name)
		}
		return fmt.Errorf("insert font: %w", err)
	}
	return nil
}

func (r *FontRepo) GetFont(ctx context.Context, fontID id.ID) (*settings.Font, error) {
	sql, args, err := builder().
		Select("id", "name", "data", "size", "created_at", "updated_at").
		From("fonts").
		Where(squirrel.Eq{"id": fontID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var row fontRow
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("font", fontID)
		}
		return nil, fmt.Errorf("get font: %w", err)
	}
	return r.toFont(row, true)
}

func (r *FontRepo) ListFonts(ctx context.Context, withData bool) ([]*settings.Font, error) {
	cols := []string{"id", "name", "size", "created_at", "updated_at"}
	if withData {
		cols = append(cols, "data")
	}
	sql, args, err := builder().
		Select(cols...).
		From("fonts").
		OrderBy("name", "id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []fontRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list fonts: %w", err)
	}

	return r.toFonts(ctx, rows, withData), nil
}

// toFonts drops rows whose payload does not decompress; the layout falls
// back to the built-in face for them.
func (r *FontRepo) toFonts(ctx context.Context, rows []fontRow, withData bool) []*settings.Font {
	out := make([]*settings.Font, 0, len(rows))
	for _, row := range rows {
		f, err := r.toFont(row, withData)
		if err != nil {
			logger.Warn(ctx, "skipping undecodable font", "id", row.ID, "name", row.Name, "error", err)
			continue
		}
		out = append(out, f)
	}
	return out
}

func (r *FontRepo) DeleteFont(ctx context.Context, fontID id.ID) error {
	sql, args, err := builder().
		Delete("fonts").
		Where(squirrel.Eq{"id": fontID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	res, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete font: %w", err)
	}
	if res.RowsAffected() == 0 {
		return apperror.NewNotFound("font", fontID)
	}
	return nil
}
