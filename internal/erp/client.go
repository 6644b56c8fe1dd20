// Package erp provides read-only connectivity to the shop's legacy ERP
// database (MS SQL Server). It serves supplier lookups and historical
// material prices for the purchasing screens; nothing is ever written back.
package erp

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"

	"github.com/hmc-usinagem/ftc-api/internal/config"
)

const (
	// Retry configuration for connection attempts
	maxConnectRetries = 3
	initialBackoff    = 1 * time.Second
	maxBackoff        = 10 * time.Second
	backoffFactor     = 2.0

	healthCheckTimeout = 5 * time.Second
)

// Fornecedor is a supplier record from the legacy ERP
type Fornecedor struct {
	Codigo   string `json:"codigo"`
	Nome     string `json:"nome"`
	CNPJ     string `json:"cnpj,omitempty"`
	Telefone string `json:"telefone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// PrecoHistorico is the last purchase price recorded for a material
type PrecoHistorico struct {
	Descricao     string    `json:"descricao"`
	Fornecedor    string    `json:"fornecedor"`
	PrecoUnitario float64   `json:"precoUnitario"`
	DataCompra    time.Time `json:"dataCompra"`
}

// Client provides read-only access to the legacy ERP database.
type Client struct {
	db           *sql.DB
	config       *config.ErpConfig
	logger       *zap.Logger
	queryTimeout time.Duration
}

// HealthStatus represents the health check result for the ERP connection
type HealthStatus struct {
	Status     string        `json:"status"`
	Latency    time.Duration `json:"latency_ms"`
	Error      string        `json:"error,omitempty"`
	MaxOpen    int           `json:"max_open_connections"`
	Open       int           `json:"open_connections"`
	InUse      int           `json:"in_use"`
	Idle       int           `json:"idle"`
}

// NewClient creates a new ERP client with the given configuration.
// Returns nil if the ERP integration is not enabled or not configured.
// The client establishes a connection pool with retry for transient failures.
func NewClient(cfg *config.ErpConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("ERP connection disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("ERP enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	connStr, err := buildConnectionString(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build connection string: %w", err)
	}

	var db *sql.DB
	backoff := initialBackoff

	for attempt := 1; attempt <= maxConnectRetries; attempt++ {
		logger.Info("Attempting ERP connection",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", maxConnectRetries),
		)

		db, err = sql.Open("sqlserver", connStr)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

			ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			err = db.PingContext(ctx)
			cancel()

			if err == nil {
				logger.Info("ERP connection established",
					zap.Int("attempts_taken", attempt),
				)
				return &Client{
					db:           db,
					config:       cfg,
					logger:       logger,
					queryTimeout: cfg.QueryTimeoutDuration(),
				}, nil
			}

			logger.Warn("ERP ping failed", zap.Error(err), zap.Int("attempt", attempt))
			_ = db.Close()
		} else {
			logger.Warn("Failed to open ERP connection", zap.Error(err), zap.Int("attempt", attempt))
		}

		if attempt < maxConnectRetries {
			time.Sleep(backoff)
			backoff = min(time.Duration(float64(backoff)*backoffFactor), maxBackoff)
		}
	}

	return nil, fmt.Errorf("failed to connect to ERP after %d attempts: %w", maxConnectRetries, err)
}

// buildConnectionString constructs a SQL Server connection string from the
// config. URL format expected: host:port/database or host:port.
func buildConnectionString(cfg *config.ErpConfig) (string, error) {
	urlParts := strings.SplitN(cfg.URL, "/", 2)
	hostPort := urlParts[0]
	database := ""
	if len(urlParts) > 1 {
		database = urlParts[1]
	}

	hostParts := strings.SplitN(hostPort, ":", 2)
	host := hostParts[0]
	port := "1433" // Default SQL Server port
	if len(hostParts) > 1 {
		port = hostParts[1]
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", host, port),
		RawQuery: query.Encode(),
	}

	return u.String(), nil
}

// Close gracefully closes the ERP connection. Called during shutdown.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}

	c.logger.Info("Closing ERP connection")

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close ERP connection: %w", err)
	}

	return nil
}

// IsEnabled returns true if the client is initialized and ready for queries.
func (c *Client) IsEnabled() bool {
	return c != nil && c.db != nil
}

// HealthCheck pings the ERP connection and reports pool statistics.
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{Status: "disabled"}
	}

	start := time.Now()

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, healthCheckTimeout)
		defer cancel()
	}

	err := c.db.PingContext(ctx)
	latency := time.Since(start)

	stats := c.db.Stats()
	status := &HealthStatus{
		Latency: latency,
		MaxOpen: stats.MaxOpenConnections,
		Open:    stats.OpenConnections,
		InUse:   stats.InUse,
		Idle:    stats.Idle,
	}

	if err != nil {
		status.Status = "unhealthy"
		status.Error = err.Error()
	} else {
		status.Status = "healthy"
	}

	return status
}

// SearchFornecedores looks up suppliers by partial name.
func (c *Client) SearchFornecedores(ctx context.Context, nome string, limit int) ([]Fornecedor, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("erp client not initialized")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	query := `SELECT TOP (@p1) codigo, nome, cnpj, telefone, email
		FROM dbo.fornecedores
		WHERE ativo = 1 AND nome LIKE @p2
		ORDER BY nome`

	rows, err := c.db.QueryContext(ctx, query, limit, "%"+nome+"%")
	if err != nil {
		return nil, fmt.Errorf("supplier search failed: %w", err)
	}
	defer rows.Close()

	var out []Fornecedor
	for rows.Next() {
		var f Fornecedor
		var cnpj, telefone, email sql.NullString
		if err := rows.Scan(&f.Codigo, &f.Nome, &cnpj, &telefone, &email); err != nil {
			return nil, fmt.Errorf("failed to scan supplier row: %w", err)
		}
		f.CNPJ = cnpj.String
		f.Telefone = telefone.String
		f.Email = email.String
		out = append(out, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating supplier rows: %w", err)
	}

	return out, nil
}

// LatestPreco returns the most recent purchase price recorded for materials
// matching the description, newest first.
func (c *Client) LatestPreco(ctx context.Context, descricao string, limit int) ([]PrecoHistorico, error) {
	if c == nil || c.db == nil {
		return nil, fmt.Errorf("erp client not initialized")
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	query := `SELECT TOP (@p1) i.descricao, f.nome, i.preco_unitario, i.data_compra
		FROM dbo.itens_compra i
		JOIN dbo.fornecedores f ON f.codigo = i.fornecedor_codigo
		WHERE i.descricao LIKE @p2
		ORDER BY i.data_compra DESC`

	rows, err := c.db.QueryContext(ctx, query, limit, "%"+descricao+"%")
	if err != nil {
		return nil, fmt.Errorf("price history query failed: %w", err)
	}
	defer rows.Close()

	var out []PrecoHistorico
	for rows.Next() {
		var p PrecoHistorico
		if err := rows.Scan(&p.Descricao, &p.Fornecedor, &p.PrecoUnitario, &p.DataCompra); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price rows: %w", err)
	}

	return out, nil
}
