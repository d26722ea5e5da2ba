package model

// All lists the models managed by auto-migration, parents first.
func All() []any {
	return []any{
		&UserModel{},
		&GoalModel{},
		&AssignmentModel{},
		&EmailQueueModel{},
	}
}
