package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chainclient/models"
)

// ReplacePeers atomically replaces the cached peer list for one network,
// preserving the given order.
func (s *Store) ReplacePeers(network string, peers []models.Peer) error {
	if strings.TrimSpace(network) == "" {
		return errors.New("network is required")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin peer cache transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.Exec(`DELETE FROM cached_peers WHERE network = ?`, network); err != nil {
		return fmt.Errorf("clear peer cache for %q: %w", network, err)
	}

	now := time.Now().UnixMilli()
	for rank, peer := range peers {
		if peer.IP == "" || peer.Port == 0 {
			continue
		}
		https := 0
		if peer.HTTPS {
			https = 1
		}
		if _, err := tx.Exec(
			`INSERT INTO cached_peers (
				network, ip, port, https, version, status, height, delay, rank, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(network, ip) DO NOTHING`,
			network,
			peer.IP,
			peer.Port,
			https,
			peer.Version,
			string(peer.Status),
			peer.Height,
			peer.Delay,
			rank,
			now,
		); err != nil {
			return fmt.Errorf("insert cached peer %q for %q: %w", peer.IP, network, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit peer cache transaction: %w", err)
	}

	return nil
}

// GetPeers returns the cached peer list for one network in cached order.
func (s *Store) GetPeers(network string) ([]models.Peer, error) {
	if strings.TrimSpace(network) == "" {
		return nil, errors.New("network is required")
	}

	rows, err := s.db.Query(
		`SELECT ip, port, https, version, status, height, delay
		FROM cached_peers
		WHERE network = ?
		ORDER BY rank`,
		network,
	)
	if err != nil {
		return nil, fmt.Errorf("get cached peers for %q: %w", network, err)
	}
	defer rows.Close()

	peers := make([]models.Peer, 0)
	for rows.Next() {
		var (
			peer   models.Peer
			https  int
			status string
		)
		if err := rows.Scan(&peer.IP, &peer.Port, &https, &peer.Version, &status, &peer.Height, &peer.Delay); err != nil {
			return nil, fmt.Errorf("scan cached peer row: %w", err)
		}
		peer.HTTPS = https == 1
		peer.Status = models.PeerStatus(status)
		peers = append(peers, peer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cached peer rows: %w", err)
	}

	if len(peers) == 0 {
		return nil, ErrNotFound
	}

	return peers, nil
}

// RemovePeers drops the cached peer list for one network.
func (s *Store) RemovePeers(network string) error {
	if strings.TrimSpace(network) == "" {
		return errors.New("network is required")
	}

	res, err := s.db.Exec(`DELETE FROM cached_peers WHERE network = ?`, network)
	if err != nil {
		return fmt.Errorf("remove cached peers for %q: %w", network, err)
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for remove cached peers %q: %w", network, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
