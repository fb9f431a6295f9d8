package postgres

import (
	"context"
	"fmt"

	"github.com/frahmantamala/accessmodel-admin/internal/permission"
	"github.com/frahmantamala/accessmodel-admin/internal/warehouse"
)

// PermissionRepository reads and writes the permission extension tables through the
// warehouse gateway.
type PermissionRepository struct {
	gateway warehouse.Gateway
	schema  string
}

func NewPermissionRepository(gateway warehouse.Gateway, extensionSchema string) permission.RepositoryAPI {
	return &PermissionRepository{gateway: gateway, schema: extensionSchema}
}

func (r *PermissionRepository) table(t permission.Table) string {
	return warehouse.Qualify(r.schema, string(t))
}

func (r *PermissionRepository) List(ctx context.Context, t permission.Table) ([]warehouse.Row, error) {
	stmt := warehouse.NewStatement("list_"+string(t),
		fmt.Sprintf("SELECT * FROM %s ORDER BY id", r.table(t)))

	result, err := r.gateway.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}
	return result.Rows, nil
}

// The id is max(id)+1 computed by the warehouse inside the insert itself. Two sessions
// inserting at the same moment can still compute the same id; there is no cross-session
// lock.
func (r *PermissionRepository) InsertManagerWorker(ctx context.Context, manager, worker string) error {
	table := r.table(permission.TableManagerWorker)
	stmt := warehouse.NewStatement("insert_"+string(permission.TableManagerWorker), fmt.Sprintf(
		"INSERT INTO %s (id, manager_name, worker_name, timestamp) "+
			"SELECT COALESCE(MAX(id), 0) + 1, ?, ?, CURRENT_TIMESTAMP FROM %s",
		table, table), manager, worker)

	_, err := r.gateway.Exec(ctx, stmt)
	return err
}

func (r *PermissionRepository) InsertWorkerTeam(ctx context.Context, worker, team string) error {
	table := r.table(permission.TableWorkerTeam)
	stmt := warehouse.NewStatement("insert_"+string(permission.TableWorkerTeam), fmt.Sprintf(
		"INSERT INTO %s (id, worker_name, team_name, timestamp) "+
			"SELECT COALESCE(MAX(id), 0) + 1, ?, ?, CURRENT_TIMESTAMP FROM %s",
		table, table), worker, team)

	_, err := r.gateway.Exec(ctx, stmt)
	return err
}

func (r *PermissionRepository) Delete(ctx context.Context, t permission.Table, id int64) error {
	stmt := warehouse.NewStatement("delete_"+string(t),
		fmt.Sprintf("DELETE FROM %s WHERE id = ?", r.table(t)), id)

	_, err := r.gateway.Exec(ctx, stmt)
	return err
}
