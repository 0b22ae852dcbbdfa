package profilesync

// NextActive вычисляет id активного профиля. Чистая функция без скрытого состояния.
//
// Порядок предпочтения:
//  1. профилей нет -> "";
//  2. hint непустой и присутствует в profiles -> hint;
//  3. prevActive присутствует в profiles -> prevActive;
//  4. иначе первый профиль в порядке коллекции.
//
// Пустой hint (null) никогда не снимает выбор, пока профили есть.
func NextActive(prevActive, hint string, profiles []Profile) string {
	if len(profiles) == 0 {
		return ""
	}

	if hint != "" && containsID(profiles, hint) {
		return hint
	}

	if prevActive != "" && containsID(profiles, prevActive) {
		return prevActive
	}

	return profiles[0].ID
}

func containsID(profiles []Profile, id string) bool {
	return indexOf(profiles, id) >= 0
}

func indexOf(profiles []Profile, id string) int {
	for i := range profiles {
		if profiles[i].ID == id {
			return i
		}
	}

	return -1
}
