package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"learner": {
		"category:list",
		"test:create",
		"test:view",
		"test:submit",
		"flag:create",
		"doc:view",
		"learning:*",
		"profile:*",
		"stats:view",
		"leaderboard:view",
		"presence:update",
	},
	"admin": {
		"*", // everything
	},
}
