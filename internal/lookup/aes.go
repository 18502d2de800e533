package lookup

// accountExecutives is the canonical AE registry. Deals owned by these people
// count as demos held. Order matters: owner attribution scans the list top to
// bottom and the first name that substring-matches wins, so aliases for the
// same person ("Marc James" / "Marc James Beauchamp") both resolve and the
// earlier entry is the tie-break when an owner string contains several names.
var accountExecutives = []string{
	"Edgar",
	"Alfred",
	"Zach",
	"Zachary",
	"Vanessa",
	"David",
	"Pedro",
	"Gleidson",
	"Marysol",
	"Marc James",
	"Marc James Beauchamp",
}

// AccountExecutives returns the registry in match-priority order.
func AccountExecutives() []string {
	out := make([]string, len(accountExecutives))
	copy(out, accountExecutives)
	return out
}
