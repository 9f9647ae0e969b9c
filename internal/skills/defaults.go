package skills

import "github.com/spigell/resource-matcher/internal/profile"

// Default returns a catalog seeded with the built-in skill set.
func Default() *Catalog {
	c := New()
	for _, s := range builtin() {
		c.Add(s)
	}
	return c
}

func builtin() []profile.Skill {
	return []profile.Skill{
		{Name: "Python", Category: profile.Programming, Proficiency: profile.Intermediate, Tags: []string{"language", "scripting", "ml"}, Aliases: []string{"py", "python3"}},
		{Name: "Java", Category: profile.Programming, Proficiency: profile.Intermediate, Tags: []string{"language", "jvm"}},
		{Name: "C++", Category: profile.Programming, Proficiency: profile.Advanced, Tags: []string{"language", "systems"}, Aliases: []string{"cpp"}},

		{Name: "TensorFlow", Category: profile.MLFrameworks, Proficiency: profile.Advanced, Tags: []string{"ml", "framework", "deep-learning"}, Aliases: []string{"tf"}},
		{Name: "PyTorch", Category: profile.MLFrameworks, Proficiency: profile.Advanced, Tags: []string{"ml", "framework", "deep-learning"}, Aliases: []string{"torch"}},
		{Name: "Scikit-learn", Category: profile.MLFrameworks, Proficiency: profile.Intermediate, Tags: []string{"ml", "framework"}, Aliases: []string{"sklearn"}},

		{Name: "Deep Learning", Category: profile.DeepLearning, Proficiency: profile.Advanced, Tags: []string{"ml", "neural-networks"}, Aliases: []string{"dl"}},
		{Name: "Computer Vision", Category: profile.DeepLearning, Proficiency: profile.Advanced, Tags: []string{"ml", "images"}, Aliases: []string{"cv"}},
		{Name: "Natural Language Processing", Category: profile.DeepLearning, Proficiency: profile.Advanced, Tags: []string{"ml", "text"}, Aliases: []string{"nlp"}},

		{Name: "Data Analysis", Category: profile.DataScience, Proficiency: profile.Intermediate, Tags: []string{"analytics"}},
		{Name: "SQL", Category: profile.DataScience, Proficiency: profile.Intermediate, Tags: []string{"database", "query"}},
		{Name: "Data Visualization", Category: profile.DataScience, Proficiency: profile.Intermediate, Tags: []string{"analytics", "reporting"}, Aliases: []string{"dataviz"}},

		{Name: "AWS", Category: profile.Cloud, Proficiency: profile.Intermediate, Tags: []string{"cloud"}, Aliases: []string{"amazon web services"}},
		{Name: "Google Cloud", Category: profile.Cloud, Proficiency: profile.Intermediate, Tags: []string{"cloud"}, Aliases: []string{"gcp"}},
		{Name: "Azure", Category: profile.Cloud, Proficiency: profile.Intermediate, Tags: []string{"cloud"}},

		{Name: "Docker", Category: profile.DevOps, Proficiency: profile.Intermediate, Tags: []string{"containers"}},
		{Name: "Kubernetes", Category: profile.DevOps, Proficiency: profile.Advanced, Tags: []string{"containers", "orchestration"}, Aliases: []string{"k8s"}},
		{Name: "Git", Category: profile.DevOps, Proficiency: profile.Intermediate, Tags: []string{"vcs"}},

		{Name: "MLOps", Category: profile.Specialized, Proficiency: profile.Advanced, Tags: []string{"ml", "operations"}},
		{Name: "CUDA", Category: profile.Specialized, Proficiency: profile.Advanced, Tags: []string{"gpu", "systems"}},
	}
}
